package puesc

import (
	"fmt"
	"time"

	"quicksent/models"
)

const messageVersion = "1.0"

// Builder assembles SENT messages. The clock is injected so message ids
// and dates are deterministic under test.
type Builder struct {
	senderID   string
	receiverID string
	now        func() time.Time
}

func NewBuilder(senderID, receiverID string, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{senderID: senderID, receiverID: receiverID, now: now}
}

// DeclarationInput mirrors the declaration form sections. Missing fields
// pass through as zero values; the builder performs no validation.
type DeclarationInput struct {
	DeclarationNumber string                  `json:"declarationNumber"`
	Sender            models.Party            `json:"sender"`
	Receiver          models.Party            `json:"receiver"`
	TransportDetails  models.TransportDetails `json:"transportDetails"`
	Goods             models.Goods            `json:"goods"`
	AdditionalInfo    *models.AdditionalInfo  `json:"additionalInfo,omitempty"`
}

// Sent100 builds an INITIAL declaration in DRAFT status. When the input
// carries no declaration number, a timestamp-derived one is generated.
func (b *Builder) Sent100(input DeclarationInput) models.Sent100Declaration {
	now := b.now()

	number := input.DeclarationNumber
	if number == "" {
		number = fmt.Sprintf("QS%d", now.UnixMilli())
	}

	return models.Sent100Declaration{
		MessageHeader: b.header("SENT100", now),
		Declaration: models.DeclarationData{
			DeclarationNumber: number,
			DeclarationDate:   now.Format("2006-01-02"),
			DeclarationType:   models.DeclarationInitial,
			Status:            models.StatusDraft,
			Sender:            input.Sender,
			Receiver:          input.Receiver,
			TransportDetails:  input.TransportDetails,
			Goods:             input.Goods,
			AdditionalInfo:    input.AdditionalInfo,
		},
	}
}

// SentEdit builds an edit request. The original declaration number is
// carried verbatim; resolving it against the store is the caller's job.
func (b *Builder) SentEdit(originalNumber string, reason models.EditReason, description string, changes models.DeclarationChanges) models.SentEditDeclaration {
	now := b.now()

	if description == "" {
		description = "Edit requested by QuickSent system"
	}

	return models.SentEditDeclaration{
		MessageHeader: b.header("SENTEDIT", now),
		EditRequest: models.EditRequest{
			OriginalDeclarationNumber: originalNumber,
			EditReason:                reason,
			EditDescription:           description,
			Changes:                   changes,
		},
	}
}

func (b *Builder) header(messageType string, now time.Time) models.MessageHeader {
	return models.MessageHeader{
		MessageID:   fmt.Sprintf("%s_%d", messageType, now.UnixMilli()),
		MessageType: messageType,
		SenderID:    b.senderID,
		ReceiverID:  b.receiverID,
		MessageDate: now.UTC().Format(time.RFC3339),
		Version:     messageVersion,
	}
}
