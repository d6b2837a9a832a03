package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders user and program lists to downloadable documents.
type ExportService struct {
	users    userRepository
	programs programRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService creates an export service.
func NewExportService(users userRepository, programs programRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		users:    users,
		programs: programs,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportUsers renders the full user list.
func (s *ExportService) ExportUsers(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.WrapStore(err, "failed to list users for export")
	}

	table := export.Table{
		Header: []string{"Email", "Name", "Role", "Active", "Student Number", "Program", "Department"},
	}
	for _, u := range users {
		table.Rows = append(table.Rows, []string{
			u.Email,
			u.FullName(),
			string(u.Role),
			strconv.FormatBool(u.Active),
			deref(u.StudentNumber),
			deref(u.ProgramCode),
			deref(u.Department),
		})
	}

	return s.render(table, "users", "User Accounts", format)
}

// ExportPrograms renders the full program list.
func (s *ExportService) ExportPrograms(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, appErrors.WrapStore(err, "failed to list programs for export")
	}

	table := export.Table{
		Header: []string{"Code", "Name", "Major", "Active", "Description"},
	}
	for _, p := range programs {
		table.Rows = append(table.Rows, []string{
			p.Code,
			p.Name,
			p.Major,
			strconv.FormatBool(p.Active),
			p.Description,
		})
	}

	return s.render(table, "programs", "Academic Programs", format)
}

func (s *ExportService) render(table export.Table, name, title string, format ExportFormat) (*ExportResult, error) {
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Filename: name + ".csv", ContentType: "text/csv", Data: data}, nil
	case FormatPDF:
		data, err := s.pdf.Render(table, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: name + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+string(format))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
