package service

import (
	"context"
	"fmt"
	"strconv"

	appErrors "github.com/usermgmt/admin-web/pkg/errors"
	"github.com/usermgmt/admin-web/pkg/export"
)

// ExportFormat enumerates supported download formats for the user list.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the current user list as a downloadable document.
type ExportService struct {
	users userStore
	csv   *export.CSVExporter
	pdf   *export.PDFExporter
}

// NewExportService creates an instance of ExportService.
func NewExportService(users userStore) *ExportService {
	return &ExportService{
		users: users,
		csv:   export.NewCSVExporter(),
		pdf:   export.NewPDFExporter(),
	}
}

// RenderUsers exports every user in the requested format.
func (s *ExportService) RenderUsers(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users for export")
	}

	data := export.Dataset{
		Headers: []string{"ID", "Forename", "Surname", "Email", "Active", "Date of Birth"},
		Rows:    make([][]string, 0, len(users)),
	}
	for _, u := range users {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Forename,
			u.Surname,
			u.Email,
			strconv.FormatBool(u.Active),
			u.DateOfBirth.Format("02/01/2006"),
		})
	}

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "users.csv"}, nil
	case FormatPDF:
		content, err := s.pdf.Render(data, "Users")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "users.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
