package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/pkg/openbanking"
)

// mockTransferPrefix marks references of transfers the rails never accepted.
const mockTransferPrefix = "mock-transfer-"

// CreateTransfer moves funds between two linked banks through the payment
// rails. A rails failure records the transfer as simulated instead of
// failing the request.
type CreateTransfer struct {
	rails     openbanking.PaymentRailsClient
	banks     port.BankRepository
	transfers port.TransferRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCreateTransfer creates a new CreateTransfer use case.
func NewCreateTransfer(
	rails openbanking.PaymentRailsClient,
	banks port.BankRepository,
	transfers port.TransferRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CreateTransfer {
	return &CreateTransfer{
		rails:     rails,
		banks:     banks,
		transfers: transfers,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute validates the request, submits it to the rails and stores the
// transfer. Only validation, lookup and persistence errors are returned.
func (uc *CreateTransfer) Execute(ctx context.Context, req dto.CreateTransferRequest) (dto.TransferResponse, error) {
	sender, err := uc.banks.FindByID(ctx, req.UserID, req.SenderBankID)
	if err != nil {
		return dto.TransferResponse{}, fmt.Errorf("failed to find sender bank %s: %w", req.SenderBankID, err)
	}
	receiver, err := uc.banks.FindByShareableID(ctx, req.ReceiverShareableID)
	if err != nil {
		return dto.TransferResponse{}, fmt.Errorf("failed to find receiver bank %s: %w", req.ReceiverShareableID, err)
	}

	transfer, err := model.NewTransfer(req.UserID, sender, receiver, req.Amount, req.Currency, req.Name, req.Email)
	if err != nil {
		return dto.TransferResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reference, err := uc.rails.CreateTransfer(ctx, openbanking.TransferOrder{
		SourceFundingSource:      sender.PrimaryAccountID(),
		DestinationFundingSource: receiver.PrimaryAccountID(),
		Amount:                   transfer.Amount(),
		Currency:                 transfer.Currency(),
		IdempotencyKey:           transfer.ID().String(),
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "payment rails transfer failed, recording simulated transfer",
			slog.String("transfer_id", transfer.ID().String()),
			"error", err,
		)
		err = transfer.MarkSimulated(mockTransferPrefix + strconv.FormatInt(uc.now().UnixMilli(), 10))
	} else {
		err = transfer.MarkSubmitted(reference)
	}
	if err != nil {
		return dto.TransferResponse{}, fmt.Errorf("failed to initiate transfer: %w", err)
	}

	if err := uc.transfers.Save(ctx, transfer); err != nil {
		return dto.TransferResponse{}, fmt.Errorf("failed to save transfer: %w", err)
	}

	if err := transfer.PublishEvents(ctx, uc.publisher.Publish); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish transfer events",
			slog.String("transfer_id", transfer.ID().String()),
			"error", err,
		)
	}

	uc.logger.InfoContext(ctx, "transfer initiated",
		slog.String("transfer_id", transfer.ID().String()),
		slog.String("status", transfer.Status().String()),
	)

	return dto.FromTransfer(transfer), nil
}

// GetTransfer retrieves a transfer the caller sent or received.
type GetTransfer struct {
	transfers port.TransferRepository
}

// NewGetTransfer creates a new GetTransfer use case.
func NewGetTransfer(transfers port.TransferRepository) *GetTransfer {
	return &GetTransfer{transfers: transfers}
}

// Execute looks the transfer up on behalf of userID.
func (uc *GetTransfer) Execute(ctx context.Context, req dto.GetTransferRequest) (dto.TransferResponse, error) {
	transfer, err := uc.transfers.FindByID(ctx, req.UserID, req.TransferID)
	if err != nil {
		return dto.TransferResponse{}, fmt.Errorf("failed to find transfer %s: %w", req.TransferID, err)
	}
	return dto.FromTransfer(transfer), nil
}
