package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	assert.Equal(t, "dev", String())

	Version = "v1.2.0"
	assert.Equal(t, "v1.2.0", String())
	assert.Equal(t, "qr-class-manager/v1.2.0 ("+runtime.GOOS+"; "+runtime.GOARCH+")", UserAgent())
}

func TestWrite(t *testing.T) {
	oldCommit := GitCommit
	t.Cleanup(func() { GitCommit = oldCommit })
	GitCommit = "0123456789abcdef"

	var buf bytes.Buffer
	Write(&buf)

	assert.Contains(t, buf.String(), "qr-class-manager version")
	assert.Contains(t, buf.String(), "Git commit: 0123456\n")
	assert.Contains(t, buf.String(), "Built for: "+runtime.GOOS+"/"+runtime.GOARCH)
}
