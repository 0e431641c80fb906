package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/medrec/medrec/internal/domain/patient"
	"github.com/medrec/medrec/internal/platform/blobstore"
)

var (
	// ErrNotFound is returned when no report exists for the requested id.
	ErrNotFound = errors.New("report not found")
	// ErrValidation marks rejected input. Handlers map it to a 400.
	ErrValidation = errors.New("validation failed")
)

// MaxFileSize is the upload ceiling for a single report file.
const MaxFileSize = 20 << 20

var allowedExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
}

var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// FileUpload carries an incoming report file. MIMEType is the type declared
// by the client, not a sniffed one.
type FileUpload struct {
	FileName string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// PatientDirectory resolves external patient UIDs. Satisfied by
// *patient.Service.
type PatientDirectory interface {
	FindByUID(ctx context.Context, uid string) (*patient.Patient, error)
}

type Service struct {
	reports  Repository
	patients PatientDirectory
	blobs    blobstore.Store
}

func NewService(reports Repository, patients PatientDirectory, blobs blobstore.Store) *Service {
	return &Service{reports: reports, patients: patients, blobs: blobs}
}

// validateFile checks the declared attributes of an upload before any bytes
// are written. Both the filename extension and the declared MIME type must
// be on the allow list.
func validateFile(f *FileUpload) error {
	if f.FileName == "" {
		return fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if f.Size > MaxFileSize {
		return fmt.Errorf("%w: file exceeds the %d byte limit", ErrValidation, MaxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(f.FileName))
	if !allowedExtensions[ext] || !allowedMIMETypes[strings.ToLower(f.MIMEType)] {
		return fmt.Errorf("%w: only pdf and image files are allowed", ErrValidation)
	}
	return nil
}

// Create validates and stores the uploaded file, then records a report for
// the patient identified by uid. The patient is resolved before the blob is
// written so an unknown UID never leaves a stray file behind.
func (s *Service) Create(ctx context.Context, uid, name string, f *FileUpload) (*Report, error) {
	if name == "" || f == nil {
		return nil, fmt.Errorf("%w: file and name are required", ErrValidation)
	}

	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := validateFile(f); err != nil {
		return nil, err
	}

	path, size, err := s.blobs.Save(ctx, f.FileName, f.Content)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		PatientID: pat.ID,
		Name:      name,
		FileName:  f.FileName,
		FilePath:  path,
		FileType:  f.MIMEType,
		FileSize:  size,
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ListByUID returns all reports for the patient identified by uid, newest
// first.
func (s *Service) ListByUID(ctx context.Context, uid string) ([]*Report, error) {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.reports.ListByPatient(ctx, pat.ID)
}

// Update replaces the report's name and/or file. An empty name keeps the
// stored one; a nil file keeps the stored file fields and leaves the blob
// untouched. A replacement file does not remove the previous blob, since
// another report may share its name.
func (s *Service) Update(ctx context.Context, uid string, id uuid.UUID, name string, f *FileUpload) (*Report, error) {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if f != nil {
		if err := validateFile(f); err != nil {
			return nil, err
		}
	}
	existing, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PatientID != pat.ID {
		return nil, ErrNotFound
	}

	if name != "" {
		existing.Name = name
	}
	if f != nil {
		path, size, err := s.blobs.Save(ctx, f.FileName, f.Content)
		if err != nil {
			return nil, err
		}
		existing.FileName = f.FileName
		existing.FilePath = path
		existing.FileType = f.MIMEType
		existing.FileSize = size
	}

	if err := s.reports.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the report record and then its blob. The record goes
// first; a blob that is already gone is not an error.
func (s *Service) Delete(ctx context.Context, uid string, id uuid.UUID) error {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	existing, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.PatientID != pat.ID {
		return ErrNotFound
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.blobs.Remove(ctx, existing.FileName); err != nil && !errors.Is(err, blobstore.ErrBlobNotFound) {
		return err
	}
	return nil
}

// FetchFile streams a stored blob by filename. Lookup is by name alone and
// is not scoped to any patient.
func (s *Service) FetchFile(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	ok, err := s.blobs.Exists(ctx, fileName)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", blobstore.ErrBlobNotFound
	}
	contentType, err := s.blobs.ContentType(ctx, fileName)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.blobs.Open(ctx, fileName)
	if err != nil {
		return nil, "", err
	}
	return rc, contentType, nil
}
