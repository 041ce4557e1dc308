package acceptance_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var docmetaBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "docmeta-acceptance-*")
	if err != nil {
		panic(err)
	}

	docmetaBinary = filepath.Join(tmpDir, "docmeta")
	build := exec.Command("go", "build", "-o", docmetaBinary, "github.com/eykd/docmeta-go")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		os.RemoveAll(tmpDir)
		panic("failed to build docmeta binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}
