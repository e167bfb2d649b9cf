package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Online-Ugyvitel/ddata-core/internal/codec"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// readPayload decodes the document at path ("-" reads stdin).
func (c *cli) readPayload(stdin io.Reader, path string) (model.Payload, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cd, err := c.inputCodec(path)
	if err != nil {
		return nil, err
	}
	p, err := cd.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

func (c *cli) inputCodec(path string) (codec.Codec, error) {
	if c.inputFormat != "" {
		return codec.ByName(c.inputFormat)
	}
	if path == "-" {
		return codec.JSON{}, nil
	}
	return codec.ByExtension(path)
}

// writePayload encodes p in the output format, followed by a newline for text formats.
func (c *cli) writePayload(w io.Writer, p model.Payload) error {
	cd, err := codec.ByName(c.outputFormat)
	if err != nil {
		return err
	}
	out, err := cd.Encode(p)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if cd.Name() == "json" {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// parseID reads a command line id: integers become integer ids.
func parseID(s string) model.ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.IntID(n)
	}
	return model.StringID(s)
}
