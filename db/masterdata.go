package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Master data records behind the data-management tab. Flat rows with an
// is_active flag; references between them are plain id strings.

type Company struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	NIP        string    `db:"nip" json:"nip"`
	REGON      string    `db:"regon" json:"regon,omitempty"`
	KRS        string    `db:"krs" json:"krs,omitempty"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	PostalCode string    `db:"postal_code" json:"postalCode"`
	Country    string    `db:"country" json:"country"`
	Email      string    `db:"email" json:"email,omitempty"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type Contractor struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	NIP           string    `db:"nip" json:"nip"`
	REGON         string    `db:"regon" json:"regon,omitempty"`
	Address       string    `db:"address" json:"address"`
	City          string    `db:"city" json:"city"`
	PostalCode    string    `db:"postal_code" json:"postalCode"`
	Country       string    `db:"country" json:"country"`
	ContactPerson string    `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type Location struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	PostalCode string    `db:"postal_code" json:"postalCode"`
	Country    string    `db:"country" json:"country"`
	Latitude   *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64  `db:"longitude" json:"longitude,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description,omitempty"`
	Unit        string    `db:"unit" json:"unit"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Vehicle struct {
	ID                 string    `db:"id" json:"id"`
	RegistrationNumber string    `db:"registration_number" json:"registrationNumber"`
	Type               string    `db:"type" json:"type"`
	Capacity           float64   `db:"capacity" json:"capacity"`
	DriverID           *string   `db:"driver_id" json:"driverId,omitempty"`
	IsActive           bool      `db:"is_active" json:"isActive"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

type Driver struct {
	ID            string    `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"firstName"`
	LastName      string    `db:"last_name" json:"lastName"`
	LicenseNumber string    `db:"license_number" json:"licenseNumber"`
	LicenseType   string    `db:"license_type" json:"licenseType"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// TransportTemplate pre-fills the declaration form with a known
// sender/receiver/vehicle combination.
type TransportTemplate struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	SenderID      string    `db:"sender_id" json:"senderId"`
	ReceiverID    string    `db:"receiver_id" json:"receiverId"`
	VehicleID     string    `db:"vehicle_id" json:"vehicleId"`
	DriverID      string    `db:"driver_id" json:"driverId"`
	TransportType string    `db:"transport_type" json:"transportType"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

func (s *Storage) CreateCompany(ctx context.Context, c *Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
        INSERT INTO companies (id, name, nip, regon, krs, address, city, postal_code, country, email, phone, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.NIP, c.REGON, c.KRS, c.Address, c.City, c.PostalCode,
		c.Country, c.Email, c.Phone, c.IsActive).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (s *Storage) GetCompany(ctx context.Context, id string) (*Company, error) {
	c := &Company{}
	err := s.db.GetContext(ctx, c, `SELECT * FROM companies WHERE id=$1`, id)
	return c, err
}

func (s *Storage) UpdateCompany(ctx context.Context, c *Company) error {
	query := `
        UPDATE companies
        SET name=$1, nip=$2, regon=$3, krs=$4, address=$5, city=$6,
            postal_code=$7, country=$8, email=$9, phone=$10, is_active=$11, updated_at=NOW()
        WHERE id=$12`
	_, err := s.db.ExecContext(ctx, query,
		c.Name, c.NIP, c.REGON, c.KRS, c.Address, c.City, c.PostalCode,
		c.Country, c.Email, c.Phone, c.IsActive, c.ID)
	return err
}

func (s *Storage) DeleteCompany(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id=$1`, id)
	return err
}

func (s *Storage) GetCompanies(ctx context.Context, search string, limit, offset int) ([]Company, error) {
	query := `
        SELECT * FROM companies
        WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR nip = $1
        ORDER BY name ASC
        LIMIT $2 OFFSET $3`
	companies := []Company{}
	err := s.db.SelectContext(ctx, &companies, query, search, limit, offset)
	return companies, err
}

func (s *Storage) CreateContractor(ctx context.Context, c *Contractor) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
        INSERT INTO contractors
            (id, name, nip, regon, address, city, postal_code, country,
             contact_person, phone, email, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.NIP, c.REGON, c.Address, c.City, c.PostalCode,
		c.Country, c.ContactPerson, c.Phone, c.Email, c.IsActive).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (s *Storage) GetContractor(ctx context.Context, id string) (*Contractor, error) {
	c := &Contractor{}
	err := s.db.GetContext(ctx, c, `SELECT * FROM contractors WHERE id=$1`, id)
	return c, err
}

func (s *Storage) UpdateContractor(ctx context.Context, c *Contractor) error {
	query := `
        UPDATE contractors
        SET name=$1, nip=$2, regon=$3, address=$4, city=$5, postal_code=$6,
            country=$7, contact_person=$8, phone=$9, email=$10, is_active=$11, updated_at=NOW()
        WHERE id=$12`
	_, err := s.db.ExecContext(ctx, query,
		c.Name, c.NIP, c.REGON, c.Address, c.City, c.PostalCode, c.Country,
		c.ContactPerson, c.Phone, c.Email, c.IsActive, c.ID)
	return err
}

func (s *Storage) DeleteContractor(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM contractors WHERE id=$1`, id)
	return err
}

func (s *Storage) GetContractors(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]Contractor, error) {
	query := `
        SELECT * FROM contractors
        WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR nip = $1)
          AND (NOT $2 OR is_active)
        ORDER BY name ASC
        LIMIT $3 OFFSET $4`
	contractors := []Contractor{}
	err := s.db.SelectContext(ctx, &contractors, query, search, activeOnly, limit, offset)
	return contractors, err
}

func (s *Storage) CreateLocation(ctx context.Context, l *Location) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := `
        INSERT INTO locations (id, name, address, city, postal_code, country, latitude, longitude, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		l.ID, l.Name, l.Address, l.City, l.PostalCode, l.Country,
		l.Latitude, l.Longitude, l.IsActive).
		Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (s *Storage) GetLocation(ctx context.Context, id string) (*Location, error) {
	l := &Location{}
	err := s.db.GetContext(ctx, l, `SELECT * FROM locations WHERE id=$1`, id)
	return l, err
}

func (s *Storage) UpdateLocation(ctx context.Context, l *Location) error {
	query := `
        UPDATE locations
        SET name=$1, address=$2, city=$3, postal_code=$4, country=$5,
            latitude=$6, longitude=$7, is_active=$8, updated_at=NOW()
        WHERE id=$9`
	_, err := s.db.ExecContext(ctx, query,
		l.Name, l.Address, l.City, l.PostalCode, l.Country,
		l.Latitude, l.Longitude, l.IsActive, l.ID)
	return err
}

func (s *Storage) DeleteLocation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id=$1`, id)
	return err
}

func (s *Storage) GetLocations(ctx context.Context, search string, limit, offset int) ([]Location, error) {
	query := `
        SELECT * FROM locations
        WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%'
        ORDER BY name ASC
        LIMIT $2 OFFSET $3`
	locations := []Location{}
	err := s.db.SelectContext(ctx, &locations, query, search, limit, offset)
	return locations, err
}

func (s *Storage) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
        INSERT INTO products (id, name, code, category, description, unit, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Code, p.Category, p.Description, p.Unit, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Storage) GetProduct(ctx context.Context, id string) (*Product, error) {
	p := &Product{}
	err := s.db.GetContext(ctx, p, `SELECT * FROM products WHERE id=$1`, id)
	return p, err
}

func (s *Storage) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
        UPDATE products
        SET name=$1, code=$2, category=$3, description=$4, unit=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7`
	_, err := s.db.ExecContext(ctx, query,
		p.Name, p.Code, p.Category, p.Description, p.Unit, p.IsActive, p.ID)
	return err
}

func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func (s *Storage) GetProducts(ctx context.Context, search, category string, limit, offset int) ([]Product, error) {
	query := `
        SELECT * FROM products
        WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR code = $1)
          AND ($2 = '' OR category = $2)
        ORDER BY name ASC
        LIMIT $3 OFFSET $4`
	products := []Product{}
	err := s.db.SelectContext(ctx, &products, query, search, category, limit, offset)
	return products, err
}

func (s *Storage) CreateVehicle(ctx context.Context, v *Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `
        INSERT INTO vehicles (id, registration_number, type, capacity, driver_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		v.ID, v.RegistrationNumber, v.Type, v.Capacity, v.DriverID, v.IsActive).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (s *Storage) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	v := &Vehicle{}
	err := s.db.GetContext(ctx, v, `SELECT * FROM vehicles WHERE id=$1`, id)
	return v, err
}

func (s *Storage) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	query := `
        UPDATE vehicles
        SET registration_number=$1, type=$2, capacity=$3, driver_id=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	_, err := s.db.ExecContext(ctx, query,
		v.RegistrationNumber, v.Type, v.Capacity, v.DriverID, v.IsActive, v.ID)
	return err
}

func (s *Storage) DeleteVehicle(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	return err
}

func (s *Storage) GetVehicles(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]Vehicle, error) {
	query := `
        SELECT * FROM vehicles
        WHERE ($1 = '' OR registration_number ILIKE '%' || $1 || '%')
          AND (NOT $2 OR is_active)
        ORDER BY registration_number ASC
        LIMIT $3 OFFSET $4`
	vehicles := []Vehicle{}
	err := s.db.SelectContext(ctx, &vehicles, query, search, activeOnly, limit, offset)
	return vehicles, err
}

func (s *Storage) CountVehicles(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM vehicles WHERE is_active`)
	return count, err
}

func (s *Storage) CreateDriver(ctx context.Context, d *Driver) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query := `
        INSERT INTO drivers (id, first_name, last_name, license_number, license_type, phone, email, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		d.ID, d.FirstName, d.LastName, d.LicenseNumber, d.LicenseType,
		d.Phone, d.Email, d.IsActive).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (s *Storage) GetDriver(ctx context.Context, id string) (*Driver, error) {
	d := &Driver{}
	err := s.db.GetContext(ctx, d, `SELECT * FROM drivers WHERE id=$1`, id)
	return d, err
}

func (s *Storage) UpdateDriver(ctx context.Context, d *Driver) error {
	query := `
        UPDATE drivers
        SET first_name=$1, last_name=$2, license_number=$3, license_type=$4,
            phone=$5, email=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	_, err := s.db.ExecContext(ctx, query,
		d.FirstName, d.LastName, d.LicenseNumber, d.LicenseType,
		d.Phone, d.Email, d.IsActive, d.ID)
	return err
}

func (s *Storage) DeleteDriver(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drivers WHERE id=$1`, id)
	return err
}

func (s *Storage) GetDrivers(ctx context.Context, search string, limit, offset int) ([]Driver, error) {
	query := `
        SELECT * FROM drivers
        WHERE $1 = '' OR first_name ILIKE '%' || $1 || '%'
           OR last_name ILIKE '%' || $1 || '%' OR license_number = $1
        ORDER BY last_name ASC, first_name ASC
        LIMIT $2 OFFSET $3`
	drivers := []Driver{}
	err := s.db.SelectContext(ctx, &drivers, query, search, limit, offset)
	return drivers, err
}

func (s *Storage) CreateTransportTemplate(ctx context.Context, t *TransportTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
        INSERT INTO transport_templates
            (id, name, sender_id, receiver_id, vehicle_id, driver_id, transport_type, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.SenderID, t.ReceiverID, t.VehicleID, t.DriverID,
		t.TransportType, t.IsActive).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *Storage) GetTransportTemplate(ctx context.Context, id string) (*TransportTemplate, error) {
	t := &TransportTemplate{}
	err := s.db.GetContext(ctx, t, `SELECT * FROM transport_templates WHERE id=$1`, id)
	return t, err
}

func (s *Storage) UpdateTransportTemplate(ctx context.Context, t *TransportTemplate) error {
	query := `
        UPDATE transport_templates
        SET name=$1, sender_id=$2, receiver_id=$3, vehicle_id=$4, driver_id=$5,
            transport_type=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	_, err := s.db.ExecContext(ctx, query,
		t.Name, t.SenderID, t.ReceiverID, t.VehicleID, t.DriverID,
		t.TransportType, t.IsActive, t.ID)
	return err
}

func (s *Storage) DeleteTransportTemplate(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transport_templates WHERE id=$1`, id)
	return err
}

func (s *Storage) GetTransportTemplates(ctx context.Context, limit, offset int) ([]TransportTemplate, error) {
	query := `
        SELECT * FROM transport_templates
        WHERE is_active
        ORDER BY name ASC
        LIMIT $1 OFFSET $2`
	templates := []TransportTemplate{}
	err := s.db.SelectContext(ctx, &templates, query, limit, offset)
	return templates, err
}

func (s *Storage) CountContractors(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM contractors WHERE is_active`)
	return count, err
}
