package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"involinks-backend/internal/metrics"
	"involinks-backend/internal/models"
	"involinks-backend/internal/peppol"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/ubl"
)

var ErrNoParticipantID = errors.New("company has no PEPPOL participant id configured")

type PeppolService struct {
	provider    peppol.Provider
	peppolRepo  *repositories.PeppolRepository
	invoiceRepo *repositories.InvoiceRepository
	companyRepo *repositories.CompanyRepository
	settingRepo *repositories.SettingRepository
}

func NewPeppolService(provider peppol.Provider,
	peppolRepo *repositories.PeppolRepository,
	invoiceRepo *repositories.InvoiceRepository,
	companyRepo *repositories.CompanyRepository,
	settingRepo *repositories.SettingRepository) *PeppolService {
	return &PeppolService{
		provider:    provider,
		peppolRepo:  peppolRepo,
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		settingRepo: settingRepo,
	}
}

// GenerateUBL renders an issued invoice as a PINT-AE UBL document.
func (s *PeppolService) GenerateUBL(ctx context.Context, companyID, invoiceID int) ([]byte, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, fmt.Errorf("invoice %d not found", invoiceID)
	}
	if inv.Status == models.InvoiceDraft {
		return nil, errors.New("drafts cannot be rendered as UBL")
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	supplier := ubl.Party{Name: company.LegalName, TRN: company.TRN, Country: "AE"}
	customer := ubl.Party{Name: inv.CustomerName, TRN: inv.CustomerTRN, Country: "AE"}
	return ubl.Generate(inv, supplier, customer)
}

// Send transmits an issued invoice over PEPPOL and records the attempt.
func (s *PeppolService) Send(ctx context.Context, companyID, invoiceID int, receiverID string) (*models.PeppolTransmission, error) {
	if receiverID == "" {
		return nil, errors.New("receiver participant id is required")
	}

	inv, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, fmt.Errorf("invoice %d not found", invoiceID)
	}
	if inv.Status != models.InvoiceIssued && inv.Status != models.InvoiceSent {
		return nil, fmt.Errorf("cannot transmit %s invoice", inv.Status)
	}

	senderID, err := s.senderParticipant(ctx, companyID)
	if err != nil {
		return nil, err
	}

	ok, err := s.provider.ValidateParticipant(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("validating receiver: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("participant %q is not registered on the network", receiverID)
	}

	document, err := s.GenerateUBL(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	txn := &models.PeppolTransmission{
		InvoiceID:  invoiceID,
		Provider:   s.provider.Name(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.PeppolSent,
	}

	result, err := s.provider.SendInvoice(ctx, senderID, receiverID, document)
	if err != nil {
		txn.Status = models.PeppolFailed
		txn.ErrorDetail = err.Error()
		if createErr := s.peppolRepo.Create(ctx, txn); createErr != nil {
			log.Printf("[Peppol] Failed to record transmission for invoice %d: %v", invoiceID, createErr)
		}
		metrics.PeppolTransmissionsTotal.WithLabelValues(s.provider.Name(), "failed").Inc()
		return nil, fmt.Errorf("transmitting invoice: %w", err)
	}

	txn.MessageID = result.MessageID
	txn.Status = result.Status
	if err := s.peppolRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, models.InvoiceSent); err != nil {
		log.Printf("[Peppol] Failed to mark invoice %d sent: %v", invoiceID, err)
	}
	metrics.PeppolTransmissionsTotal.WithLabelValues(s.provider.Name(), "sent").Inc()

	return txn, nil
}

// RefreshStatus polls the provider for a transmission still in flight.
func (s *PeppolService) RefreshStatus(ctx context.Context, companyID, transmissionID int) (*models.PeppolTransmission, error) {
	txn, err := s.peppolRepo.Get(ctx, transmissionID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.Get(ctx, txn.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, fmt.Errorf("transmission %d not found", transmissionID)
	}
	if txn.Status != models.PeppolSent {
		return txn, nil
	}

	status, err := s.provider.GetStatus(ctx, txn.MessageID)
	if err != nil {
		return nil, fmt.Errorf("polling status: %w", err)
	}

	switch status.Status {
	case models.PeppolDelivered:
		if err := s.peppolRepo.MarkDelivered(ctx, txn.ID); err != nil {
			return nil, err
		}
		metrics.PeppolTransmissionsTotal.WithLabelValues(s.provider.Name(), "delivered").Inc()
	case models.PeppolFailed:
		if err := s.peppolRepo.MarkFailed(ctx, txn.ID, status.Detail); err != nil {
			return nil, err
		}
		metrics.PeppolTransmissionsTotal.WithLabelValues(s.provider.Name(), "failed").Inc()
	default:
		return txn, nil
	}
	return s.peppolRepo.Get(ctx, txn.ID)
}

// Transmissions lists delivery attempts for one invoice.
func (s *PeppolService) Transmissions(ctx context.Context, companyID, invoiceID int) ([]*models.PeppolTransmission, error) {
	inv, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, fmt.Errorf("invoice %d not found", invoiceID)
	}
	return s.peppolRepo.ListByInvoice(ctx, invoiceID)
}

// senderParticipant reads the company's participant id from settings.
func (s *PeppolService) senderParticipant(ctx context.Context, companyID int) (string, error) {
	setting, err := s.settingRepo.Get(ctx, companyID, models.SettingPeppolParticipant)
	if err != nil || setting.SettingValue == "" {
		return "", ErrNoParticipantID
	}
	return setting.SettingValue, nil
}
