package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/senyabanana/partner-service/internal/models"
)

const (
	maxValueBytes   = 1 << 20
	maxNameAttempts = 5
	randomLimit     = 1_000_000_000
)

var (
	ErrNotMultipart    = errors.New("request body is not multipart/form-data")
	ErrMalformedBody   = errors.New("malformed multipart body")
	ErrUnexpectedField = errors.New("unexpected file field")
	ErrTooManyFiles    = errors.New("too many files for field")
	ErrValueTooLarge   = errors.New("form value too large")
	ErrInvalidFilename = errors.New("invalid file name")
	ErrNameCollision   = errors.New("could not allocate unique filename")
)

// IsMalformed сообщает, отклонено ли тело правилами приёма.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrNotMultipart) ||
		errors.Is(err, ErrMalformedBody) ||
		errors.Is(err, ErrUnexpectedField) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrValueTooLarge) ||
		errors.Is(err, ErrInvalidFilename)
}

// Field - поле формы, принимающее файлы, и максимальное число файлов в нём.
type Field struct {
	Name     string
	MaxCount int
}

// Result - файлы, сохранённые на диск, и текстовые поля формы.
type Result struct {
	Files  []models.UploadedFile
	Values url.Values
}

// Value возвращает указатель на первое значение текстового поля или nil, если поле не передано.
func (r *Result) Value(name string) *string {
	values, ok := r.Values[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// Ingestor разбирает multipart-тело по объявленным правилам.
type Ingestor struct {
	dir    string
	fields map[string]int
	now    func() time.Time
	random func() int64
}

// NewIngestor создаёт Ingestor, сохраняющий файлы в dir.
func NewIngestor(dir string, fields ...Field) *Ingestor {
	accepted := make(map[string]int, len(fields))
	for _, f := range fields {
		accepted[f.Name] = f.MaxCount
	}
	return &Ingestor{
		dir:    dir,
		fields: accepted,
		now:    time.Now,
		random: func() int64 { return rand.Int64N(randomLimit) },
	}
}

// Dir возвращает каталог загрузок.
func (in *Ingestor) Dir() string {
	return in.dir
}

// Ingest читает тело запроса потоково. При любой ошибке уже записанные файлы удаляются.
func (in *Ingestor) Ingest(r *http.Request) (*Result, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMultipart, err)
	}

	res := &Result{Values: url.Values{}}
	counts := make(map[string]int)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			Remove(res.Files)
			return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}

		if err = in.consume(part, res, counts); err != nil {
			part.Close()
			Remove(res.Files)
			return nil, err
		}
		part.Close()
	}
	return res, nil
}

func (in *Ingestor) consume(part *multipart.Part, res *Result, counts map[string]int) error {
	name := part.FormName()
	if part.FileName() == "" {
		value, err := io.ReadAll(io.LimitReader(part, maxValueBytes+1))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}
		if len(value) > maxValueBytes {
			return fmt.Errorf("%w: %q", ErrValueTooLarge, name)
		}
		res.Values.Add(name, string(value))
		return nil
	}

	maxCount, ok := in.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnexpectedField, name)
	}
	counts[name]++
	if counts[name] > maxCount {
		return fmt.Errorf("%w: %q accepts at most %d", ErrTooManyFiles, name, maxCount)
	}

	file, err := in.save(name, part)
	if err != nil {
		return err
	}
	res.Files = append(res.Files, file)
	return nil
}

func (in *Ingestor) save(field string, part *multipart.Part) (models.UploadedFile, error) {
	original, err := cleanFilename(part.FileName())
	if err != nil {
		return models.UploadedFile{}, err
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		filename := GenerateFilename(field, original, in.now(), in.random())
		path := filepath.Join(in.dir, filename)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return models.UploadedFile{}, fmt.Errorf("create %s: %w", filename, err)
		}

		size, err := io.Copy(f, part)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
			return models.UploadedFile{}, fmt.Errorf("write %s: %w", filename, err)
		}

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return models.UploadedFile{
			Field:        field,
			OriginalName: original,
			Filename:     filepath.Base(path),
			Path:         path,
			ContentType:  contentType,
			Size:         size,
		}, nil
	}
	return models.UploadedFile{}, fmt.Errorf("%w for %q", ErrNameCollision, original)
}

// cleanFilename оставляет от имени клиента только последний элемент пути.
// Имена, не указывающие на файл ("/", ".", ".."), отклоняются.
func cleanFilename(name string) (string, error) {
	base := filepath.Base(filepath.ToSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return base, nil
}

// GenerateFilename формирует имя вида {field}-{unixMillis}-{random}-{original}.
func GenerateFilename(field, original string, now time.Time, random int64) string {
	return fmt.Sprintf("%s-%d-%d-%s", field, now.UnixMilli(), random, original)
}

// EnsureDir создаёт каталог загрузок вместе с родительскими, если его нет.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return nil
}

// Remove удаляет сохранённые файлы, игнорируя уже отсутствующие.
func Remove(files []models.UploadedFile) {
	for _, f := range files {
		_ = os.Remove(f.Path)
	}
}
