package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/extract"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/utils"
)

// StdinName is the argument that reads input from standard input.
const StdinName = "-"

// InputFile is one file read by a command.
type InputFile struct {
	Name    string
	Kind    utils.InputKind
	Content []byte
}

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
	stdin   io.Reader
}

// NewFileProcessor creates a new file processor instance. A positive
// maxSize rejects larger inputs.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &FileProcessor{logger: logger, maxSize: maxSize, stdin: os.Stdin}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	if filename == StdinName {
		return fp.readAll(fp.stdin, "stdin")
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	return fp.readAll(file, filename)
}

func (fp *FileProcessor) readAll(r io.Reader, name string) ([]byte, error) {
	if fp.maxSize > 0 {
		r = io.LimitReader(r, fp.maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", name), err)
	}
	if fp.maxSize > 0 && int64(len(content)) > fp.maxSize {
		return nil, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("%s exceeds the %s limit", name, utils.FormatFileSize(fp.maxSize)), nil)
	}
	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads multiple input files
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]InputFile, error) {
	files := make([]InputFile, len(filenames))

	for i, filename := range filenames {
		if filename != StdinName {
			if err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
				return nil, errors.NewValidationError("INVALID_INPUT_FILE",
					fmt.Sprintf("Invalid file %s", filename), err)
			}
			if !utils.IsTextFile(filename) {
				fp.logger.Warn("File may not be a text file", "filename", filename)
			}
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		kind := utils.DetectInputKind(filename)
		if filename == StdinName {
			kind = sniffKind(content)
		}
		files[i] = InputFile{Name: filename, Kind: kind, Content: content}
	}

	return files, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

// DecodeListing turns an input file into a listing. JSON is decoded as a
// JobListing, HTML goes through the extractor, and plain text becomes a
// listing whose first line is the title and the rest the description.
func DecodeListing(f InputFile, sourceURL string) (types.JobListing, error) {
	switch f.Kind {
	case utils.InputJSON:
		var l types.JobListing
		if err := json.Unmarshal(f.Content, &l); err != nil {
			return types.JobListing{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s is not a valid listing document", f.Name), err)
		}
		if l.SourceURL == "" {
			l.SourceURL = sourceURL
		}
		return l, nil
	case utils.InputHTML:
		return extract.FromHTML(bytes.NewReader(f.Content), sourceURL)
	default:
		text := strings.TrimSpace(string(f.Content))
		title, body, _ := strings.Cut(text, "\n")
		return types.JobListing{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(body),
			SourceURL:   sourceURL,
		}, nil
	}
}

// sniffKind guesses the format of unnamed input.
func sniffKind(content []byte) utils.InputKind {
	trimmed := bytes.TrimSpace(content)
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return utils.InputJSON
	case bytes.HasPrefix(trimmed, []byte("<")):
		return utils.InputHTML
	default:
		return utils.InputText
	}
}
