package database

import (
	"context"

	"github.com/taqseet/taqseet/internal/apierror"
	"github.com/taqseet/taqseet/model"
)

// RecordAttachment persists a legacy attachment reference. Attachments are
// linked best-effort after the parent transaction exists; a failure here
// never rolls back the parent.
func (d Datasource) RecordAttachment(ctx context.Context, att *model.Attachment) error {
	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO attachments(attachment_id, transaction_id, url, kind, created_at) VALUES ($1, $2, $3, $4, $5)`,
		att.AttachmentID, att.TransactionID, att.URL, att.Kind, att.CreatedAt,
	)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record attachment", err)
	}

	return nil
}
