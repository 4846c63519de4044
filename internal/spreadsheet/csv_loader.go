package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/temirov/itamaudit/internal/inventory"
)

const (
	encodingUTF8Constant                = "utf-8"
	encodingUTF8BOMConstant             = "utf-8-bom"
	encodingUTF16LEConstant             = "utf-16le"
	encodingUTF16BEConstant             = "utf-16be"
	encodingWindows1252Constant         = "windows-1252"
	csvReadErrorTemplateConstant        = "failed to read csv inventory %s: %w"
	csvDecodeErrorTemplateConstant      = "failed to decode csv inventory %s: %w"
	csvParseErrorTemplateConstant       = "failed to parse csv inventory %s: %w"
	csvEmptyFileMessageTemplateConstant = "csv inventory %s contains no rows"
)

var (
	byteOrderMarkUTF8    = []byte{0xEF, 0xBB, 0xBF}
	byteOrderMarkUTF16LE = []byte{0xFF, 0xFE}
	byteOrderMarkUTF16BE = []byte{0xFE, 0xFF}
)

// CSVLoader reads comma-separated inventory exports.
type CSVLoader struct {
	readFile func(filePath string) ([]byte, error)
}

// NewCSVLoader constructs a CSVLoader reading from the operating system.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{readFile: os.ReadFile}
}

// Load reads the file, normalizes its encoding to UTF-8, and returns every row.
// Rows keep their own width; short rows are not padded.
func (loader *CSVLoader) Load(executionContext context.Context, filePath string) (Table, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return Table{}, contextError
	}

	content, readError := loader.readFile(filePath)
	if readError != nil {
		return Table{}, fmt.Errorf(csvReadErrorTemplateConstant, filePath, readError)
	}

	decodedContent, encodingName, decodeError := DecodeText(content)
	if decodeError != nil {
		return Table{}, fmt.Errorf(csvDecodeErrorTemplateConstant, filePath, decodeError)
	}

	reader := csv.NewReader(bytes.NewReader(decodedContent))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := Table{Encoding: encodingName}
	for {
		cells, parseError := reader.Read()
		if errors.Is(parseError, io.EOF) {
			break
		}
		if parseError != nil {
			return Table{}, fmt.Errorf(csvParseErrorTemplateConstant, filePath, parseError)
		}
		rowNumber, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, inventory.RawRow{Number: rowNumber, Cells: cells})
	}

	if len(table.Rows) == 0 {
		return Table{}, fmt.Errorf(csvEmptyFileMessageTemplateConstant, filePath)
	}

	return table, nil
}

// DecodeText converts exported text to UTF-8. Byte order marks select UTF-8 or
// UTF-16; content without a mark that is not valid UTF-8 is read as Windows-1252.
func DecodeText(content []byte) ([]byte, string, error) {
	var fallback transform.Transformer = encoding.Nop.NewDecoder()
	encodingName := encodingUTF8Constant

	switch {
	case bytes.HasPrefix(content, byteOrderMarkUTF8):
		encodingName = encodingUTF8BOMConstant
	case bytes.HasPrefix(content, byteOrderMarkUTF16LE):
		encodingName = encodingUTF16LEConstant
	case bytes.HasPrefix(content, byteOrderMarkUTF16BE):
		encodingName = encodingUTF16BEConstant
	case !utf8.Valid(content):
		fallback = charmap.Windows1252.NewDecoder()
		encodingName = encodingWindows1252Constant
	}

	decodedContent, _, transformError := transform.Bytes(unicode.BOMOverride(fallback), content)
	if transformError != nil {
		return nil, "", transformError
	}
	return decodedContent, encodingName, nil
}
