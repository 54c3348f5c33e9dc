package test

import (
	"math/rand"
	"runtime"
	"strings"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	source = rand.NewSource(ginkgo.GinkgoRandomSeed())
	Rand   = rand.New(source)
	Faker  = faker.NewWithSeed(source)
)

// Test runs the ginkgo specs of the calling test package.
func Test(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, suiteName())
}

func suiteName() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "Suite"
	}

	// e.g. github.com/glucolog/insights/events_test.TestSuite
	name := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[:idx]
	}
	return strings.TrimSuffix(name, "_test")
}
