package imgbb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// SourceKind identifies which representation of an image a Source holds.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceURL
	SourcePath
	SourceBytes
	SourceReader
)

func (k SourceKind) String() string {
	switch k {
	case SourceURL:
		return "url"
	case SourcePath:
		return "path"
	case SourceBytes:
		return "bytes"
	case SourceReader:
		return "reader"
	default:
		return "unknown"
	}
}

// Source is the image to upload. Build one with FromURL, FromPath,
// FromBytes, FromReader or FromString. The zero value is rejected by Upload.
type Source struct {
	kind   SourceKind
	url    string
	path   string
	data   []byte
	reader io.Reader
}

// FromURL uploads an image already hosted remotely. The URL is forwarded to
// the API unchanged and never downloaded locally.
func FromURL(u string) Source {
	return Source{kind: SourceURL, url: u}
}

// FromPath uploads a local file. The file must exist and have a supported
// image extension.
func FromPath(path string) Source {
	return Source{kind: SourcePath, path: path}
}

// FromBytes uploads an in-memory image. No format check is done.
func FromBytes(data []byte) Source {
	return Source{kind: SourceBytes, data: data}
}

// FromReader uploads the full content of r. r is read to EOF exactly once
// and is not rewound or closed afterwards.
func FromReader(r io.Reader) Source {
	return Source{kind: SourceReader, reader: r}
}

// FromString classifies s as an HTTP(S) URL or a local file path.
func FromString(s string) Source {
	if isURL(s) {
		return FromURL(s)
	}
	return FromPath(s)
}

// Kind returns the representation held by the source.
func (x Source) Kind() SourceKind {
	return x.kind
}

// String describes the source without its content.
func (x Source) String() string {
	switch x.kind {
	case SourceURL:
		return x.url
	case SourcePath:
		return x.path
	case SourceBytes:
		return fmt.Sprintf("<%d bytes>", len(x.data))
	case SourceReader:
		return "<reader>"
	default:
		return "<unknown>"
	}
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

type payloadKind int

const (
	payloadURL payloadKind = iota + 1
	payloadBytes
)

// payload is a resolved Source: either a URL to pass through or the image
// bytes to encode.
type payload struct {
	kind payloadKind
	url  string
	data []byte
}

// resolve loads the source content. Files and readers are read into memory
// since the API takes base64 text; readers are read at most MaxFileSize+1
// bytes.
func (x Source) resolve() (*payload, error) {
	switch x.kind {
	case SourceURL:
		return &payload{kind: payloadURL, url: x.url}, nil

	case SourcePath:
		data, err := readImageFile(x.path)
		if err != nil {
			return nil, err
		}
		return &payload{kind: payloadBytes, data: data}, nil

	case SourceBytes:
		if x.data == nil {
			return nil, validationError("unsupported image type: nil byte buffer")
		}
		return &payload{kind: payloadBytes, data: x.data}, nil

	case SourceReader:
		if x.reader == nil {
			return nil, validationError("unsupported image type: nil reader")
		}
		// One byte past the limit is enough for the size check to reject it
		data, err := io.ReadAll(io.LimitReader(x.reader, MaxFileSize+1))
		if err != nil {
			return nil, wrapValidationError(err, "failed to read image stream")
		}
		return &payload{kind: payloadBytes, data: data}, nil

	default:
		return nil, validationError("unsupported image type: must be a file path, URL, bytes or reader")
	}
}

func readImageFile(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, validationError("file not found: "+path, goerr.V("path", path))
		}
		return nil, wrapValidationError(err, "failed to stat image file", goerr.V("path", path))
	}
	if !st.Mode().IsRegular() {
		return nil, validationError("path is not a file: "+path, goerr.V("path", path))
	}
	if err := validateSize(st.Size()); err != nil {
		return nil, err
	}
	if err := validateExtension(filepath.Ext(path)); err != nil {
		return nil, err
	}

	// #nosec G304 - reading a caller-supplied image path is the purpose of this function
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapValidationError(err, "failed to read image file", goerr.V("path", path))
	}
	return data, nil
}
