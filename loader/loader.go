// Package loader provides program image loading for the LS-8.
//
// An image is a text file with one byte per line written in base 2. Lines
// that do not start with a binary digit (blank lines, comments) are
// skipped, and anything after the leading run of digits is ignored:
//
//	10000010 # LDI R0,8
//	00000000
//	00001000
package loader

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/translate"
)

var f = translate.From

// ErrEmptyArchive is returned for archives without any file.
var ErrEmptyArchive = errors.New(f("archive contains no files"))

// Program represents a loaded program image ready for execution.
type Program struct {
	// Path is the file the image was loaded from.
	Path string
	// Bytes holds the image, to be placed at ascending addresses from 0.
	Bytes []byte
	// Digest is the xxhash64 of Bytes.
	Digest uint64
}

// Load reads an LS-8 image from path. Images ending in .gz are gunzipped and
// images ending in .7z or .zip are read from the first file of the archive.
func Load(path string) (*Program, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	image, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Program{
		Path:   path,
		Bytes:  image,
		Digest: xxhash.Sum64(image),
	}, nil
}

// Parse reads image text from r and returns the bytes it encodes.
func Parse(r io.Reader) ([]byte, error) {
	var image []byte

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}

		if len(image) == emu.MemorySize {
			return nil, fmt.Errorf("%w: more than %d bytes", emu.ErrImageTooLarge, emu.MemorySize)
		}
		image = append(image, value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return image, nil
}

// Copy places the program at address 0 of memory.
func (p *Program) Copy(memory *emu.Memory) error {
	return memory.LoadProgram(p.Bytes)
}

// parseLine parses the leading binary number of line. Values wider than a
// byte keep their low 8 bits.
func parseLine(line string) (uint8, bool) {
	line = strings.TrimLeft(line, " \t\r\v\f")

	n := 0
	for n < len(line) && (line[n] == '0' || line[n] == '1') {
		n++
	}
	if n == 0 {
		return 0, false
	}

	digits := line[:n]
	if n > 8 {
		digits = digits[n-8:]
	}

	value, err := strconv.ParseUint(digits, 2, 8)
	if err != nil {
		return 0, false
	}

	return uint8(value), true
}

// readFile loads the raw image text, decompressing by file extension.
func readFile(path string) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".gz":
		return readGzip(path)
	case ".7z":
		return read7z(path)
	case ".zip":
		return readZip(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program image: %w", err)
	}
	return data, nil
}

func readGzip(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program image: %w", err)
	}
	defer func() { _ = fh.Close() }()

	zr, err := gzip.NewReader(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip image: %w", err)
	}
	defer func() { _ = zr.Close() }()

	return io.ReadAll(zr)
}

func read7z(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	if len(r.File) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArchive)
	}

	rc, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in archive: %w", r.File[0].Name, err)
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

func readZip(path string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	if len(r.File) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArchive)
	}

	rc, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in archive: %w", r.File[0].Name, err)
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}
