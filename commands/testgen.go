package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
)

// Marshaller is implemented by every object with a binary encoding.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      Marshaller
}

// TestGenCmd returns a command writing sample JSON and binary encodings of
// various objects, so that clients can test against them.
func TestGenCmd(examples func() []Example) *cobra.Command {
	return &cobra.Command{
		Use:   "testgen [outdir]",
		Short: "Write example encodings into given directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outdir := "testdata"
			if len(args) > 0 {
				outdir = args[0]
			}
			return WriteExamples(outdir, examples())
		},
	}
}

// WriteExamples writes the .json and .bin file of every example into outdir.
func WriteExamples(outdir string, examples []Example) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		jsFile := filepath.Join(outdir, ex.Filename+".json")
		if err := ioutil.WriteFile(jsFile, js, 0644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}

		bin, err := ex.Obj.Marshal()
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		binFile := filepath.Join(outdir, ex.Filename+".bin")
		if err := ioutil.WriteFile(binFile, bin, 0644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return nil
}
