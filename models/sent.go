package models

// SENT message shapes per the PUESC specification
// (SENT_STK_w_5_01_20210118).

type DeclarationStatus string

const (
	StatusDraft     DeclarationStatus = "DRAFT"
	StatusSubmitted DeclarationStatus = "SUBMITTED"
	StatusApproved  DeclarationStatus = "APPROVED"
	StatusRejected  DeclarationStatus = "REJECTED"
	StatusCompleted DeclarationStatus = "COMPLETED"
)

type DeclarationType string

const (
	DeclarationInitial      DeclarationType = "INITIAL"
	DeclarationCorrection   DeclarationType = "CORRECTION"
	DeclarationCancellation DeclarationType = "CANCELLATION"
)

type TransportType string

const (
	TransportRoad           TransportType = "ROAD"
	TransportRail           TransportType = "RAIL"
	TransportAir            TransportType = "AIR"
	TransportSea            TransportType = "SEA"
	TransportInlandWaterway TransportType = "INLAND_WATERWAY"
)

type VehicleType string

const (
	VehicleTruck   VehicleType = "TRUCK"
	VehicleTrailer VehicleType = "TRAILER"
	VehicleVan     VehicleType = "VAN"
	VehicleCar     VehicleType = "CAR"
)

type EntityType string

const (
	EntityIndividual EntityType = "INDIVIDUAL"
	EntityCompany    EntityType = "COMPANY"
)

type Currency string

const (
	CurrencyPLN Currency = "PLN"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

type EditReason string

const (
	EditCorrection   EditReason = "CORRECTION"
	EditCancellation EditReason = "CANCELLATION"
	EditCompletion   EditReason = "COMPLETION"
)

// MessageHeader is common to every SENT message.
type MessageHeader struct {
	MessageID   string `json:"messageId"`
	MessageType string `json:"messageType"`
	SenderID    string `json:"senderId"`
	ReceiverID  string `json:"receiverId"`
	MessageDate string `json:"messageDate"` // ISO 8601
	Version     string `json:"version"`
}

type Address struct {
	Street          string `json:"street"`
	BuildingNumber  string `json:"buildingNumber"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
	Country         string `json:"country"`
}

// Party describes the sender or receiver of the consignment.
type Party struct {
	EntityType    EntityType `json:"entityType"`
	NIP           string     `json:"nip,omitempty"` // 10 digits
	REGON         string     `json:"regon,omitempty"`
	Name          string     `json:"name"`
	Address       Address    `json:"address"`
	ContactPerson string     `json:"contactPerson,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
}

type VehicleInfo struct {
	RegistrationNumber string      `json:"registrationNumber"`
	VehicleType        VehicleType `json:"vehicleType"`
	Capacity           float64     `json:"capacity"`
	CapacityUnit       string      `json:"capacityUnit"`
}

type DriverInfo struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseType   string `json:"licenseType"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}

type Route struct {
	LoadingPlace         string `json:"loadingPlace"`
	UnloadingPlace       string `json:"unloadingPlace"`
	PlannedDepartureDate string `json:"plannedDepartureDate"`
	PlannedArrivalDate   string `json:"plannedArrivalDate"`
}

type TransportDetails struct {
	TransportType TransportType `json:"transportType"`
	Vehicle       VehicleInfo   `json:"vehicle"`
	Driver        DriverInfo    `json:"driver"`
	Route         Route         `json:"route"`
}

type Goods struct {
	Description      string   `json:"description"`
	Quantity         float64  `json:"quantity"`
	Unit             string   `json:"unit"`
	Value            float64  `json:"value"`
	Currency         Currency `json:"currency"`
	CustomsValue     float64  `json:"customsValue,omitempty"`
	CustomsCurrency  string   `json:"customsCurrency,omitempty"`
	CommodityCode    string   `json:"commodityCode,omitempty"` // CN code
	PackagingType    string   `json:"packagingType,omitempty"`
	NumberOfPackages int      `json:"numberOfPackages,omitempty"`
}

type DocumentRef struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	DocumentDate   string `json:"documentDate"`
	DocumentIssuer string `json:"documentIssuer"`
}

type ReferenceRef struct {
	ReferenceType   string `json:"referenceType"`
	ReferenceNumber string `json:"referenceNumber"`
	ReferenceDate   string `json:"referenceDate,omitempty"`
}

type AdditionalInfo struct {
	SpecialInstructions string         `json:"specialInstructions,omitempty"`
	Documents           []DocumentRef  `json:"documents,omitempty"`
	References          []ReferenceRef `json:"references,omitempty"`
}

// DeclarationData is the body of a SENT 100 message.
type DeclarationData struct {
	DeclarationNumber string            `json:"declarationNumber"`
	DeclarationDate   string            `json:"declarationDate"`
	DeclarationType   DeclarationType   `json:"declarationType"`
	Status            DeclarationStatus `json:"status"`
	Sender            Party             `json:"sender"`
	Receiver          Party             `json:"receiver"`
	TransportDetails  TransportDetails  `json:"transportDetails"`
	Goods             Goods             `json:"goods"`
	AdditionalInfo    *AdditionalInfo   `json:"additionalInfo,omitempty"`
}

// Sent100Declaration is a new transport declaration.
type Sent100Declaration struct {
	MessageHeader MessageHeader   `json:"messageHeader"`
	Declaration   DeclarationData `json:"declaration"`
}

// DeclarationChanges carries the changed sections of an edit request.
// Nil sections are untouched.
type DeclarationChanges struct {
	Sender           *Party            `json:"sender,omitempty"`
	Receiver         *Party            `json:"receiver,omitempty"`
	TransportDetails *TransportDetails `json:"transportDetails,omitempty"`
	Goods            *Goods            `json:"goods,omitempty"`
}

type EditRequest struct {
	OriginalDeclarationNumber string             `json:"originalDeclarationNumber"`
	EditReason                EditReason         `json:"editReason"`
	EditDescription           string             `json:"editDescription"`
	Changes                   DeclarationChanges `json:"changes"`
}

// SentEditDeclaration corrects, cancels or completes an existing declaration.
type SentEditDeclaration struct {
	MessageHeader MessageHeader `json:"messageHeader"`
	EditRequest   EditRequest   `json:"editRequest"`
}

type SentError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	FieldName    string `json:"fieldName,omitempty"`
}

type StatusInfo struct {
	DeclarationNumber string            `json:"declarationNumber"`
	Status            DeclarationStatus `json:"status"`
	StatusDate        string            `json:"statusDate"`
	StatusDescription string            `json:"statusDescription,omitempty"`
	Errors            []SentError       `json:"errors,omitempty"`
}

type SentStatusResponse struct {
	MessageHeader MessageHeader `json:"messageHeader"`
	StatusInfo    StatusInfo    `json:"statusInfo"`
}

type GusError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type GusEntityData struct {
	NIP              string `json:"nip"`
	REGON            string `json:"regon,omitempty"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	Status           string `json:"status"` // ACTIVE | INACTIVE | SUSPENDED
	RegistrationDate string `json:"registrationDate"`
	LastUpdateDate   string `json:"lastUpdateDate"`
}

// GusValidationResponse is the outcome of a NIP/REGON registry lookup.
type GusValidationResponse struct {
	Valid      bool           `json:"valid"`
	EntityData *GusEntityData `json:"entityData,omitempty"`
	Errors     []GusError     `json:"errors,omitempty"`
}

type PuescError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// PuescErrorResponse is the envelope PUESC returns on non-2xx statuses.
type PuescErrorResponse struct {
	Error PuescError `json:"error"`
}
