package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
)

type example struct {
	Name string `json:"name"`
}

func (e example) Marshal() ([]byte, error) {
	return []byte(e.Name), nil
}

func TestWriteExamples(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "nested")
	assert.Nil(t, WriteExamples(out, []Example{
		{Filename: "first", Obj: example{Name: "one"}},
	}))

	bin, err := ioutil.ReadFile(filepath.Join(out, "first.bin"))
	assert.Nil(t, err)
	assert.Equal(t, "one", string(bin))

	js, err := ioutil.ReadFile(filepath.Join(out, "first.json"))
	assert.Nil(t, err)
	assert.Equal(t, "{\n  \"name\": \"one\"\n}", string(js))
}
