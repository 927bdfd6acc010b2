package session

import (
	"chat-notify/domain"
	"chat-notify/domain/mimetypes"
	"chat-notify/errors"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultChunkSize = 64 * 1024
	sniffLength      = 512
)

// Stager reads a local file into a pending attachment.
// The read goes chunk by chunk and stops as soon as the context is done.
type Stager struct {
	log       *slog.Logger
	chunkSize int
	maxSize   int64
}

// NewStager refuses files bigger than maxSize bytes when maxSize is positive.
func NewStager(log *slog.Logger, chunkSize int, maxSize int64) *Stager {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Stager{log: log, chunkSize: chunkSize, maxSize: maxSize}
}

func (s *Stager) Stage(ctx context.Context, path string) (domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Attachment{}, err
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return domain.Attachment{}, fmt.Errorf("entry %s is not a file", path)
	}
	if s.maxSize > 0 && info.Size() > s.maxSize {
		return domain.Attachment{}, fmt.Errorf("%w: %d bytes (limit is %d)", errors.ErrAttachmentTooLarge, info.Size(), s.maxSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.Attachment{}, err
	}
	defer file.Close()

	data, err := s.read(ctx, file, info.Size())
	if err != nil {
		return domain.Attachment{}, err
	}

	name := filepath.Base(path)
	sniffed := mimetype.Detect(data[:min(len(data), sniffLength)]).String()
	contentType := mimetypes.Resolve(sniffed, name)
	s.log.Debug("Attachment staged", "file_name", name, "content_type", contentType, "size", len(data))
	return domain.Attachment{Data: data, ContentType: contentType, FileName: name}, nil
}

func (s *Stager) read(ctx context.Context, r io.Reader, size int64) ([]byte, error) {
	data := make([]byte, 0, size)
	buf := make([]byte, s.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if s.maxSize > 0 && int64(len(data)) > s.maxSize {
				// The file grew since it was stat'ed
				return nil, fmt.Errorf("%w: limit is %d", errors.ErrAttachmentTooLarge, s.maxSize)
			}
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
