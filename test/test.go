package test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var callerPackageRegexp = regexp.MustCompile(`^(.+?)(?:_test)[^/]+$`)

// Test runs the ginkgo suite of the calling package, named after that package
func Test(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, callerPackage())
}

// LoadFixture reads a file relative to the directory of the running suite
func LoadFixture(relativePath string) ([]byte, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(wd, relativePath))
}

func LoadJSONFixture(relativePath string, v interface{}) error {
	b, err := LoadFixture(relativePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func callerPackage() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	if matches := callerPackageRegexp.FindStringSubmatch(runtime.FuncForPC(pc).Name()); matches != nil {
		return matches[1]
	}
	return ""
}
