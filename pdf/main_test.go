package pdf

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	DisableConfigDir()
	os.Exit(m.Run())
}
