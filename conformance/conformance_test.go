package conformance

import (
	"testing"

	"github.com/theosib/FineStructureScript/engine"
)

func TestFixtures(t *testing.T) {
	fixtures, errs := LoadDir("testdata")
	for _, err := range errs {
		t.Errorf("loading testdata: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("no fixtures loaded from testdata")
	}
	for _, f := range fixtures {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			e := engine.New()
			if err := Run(e, f); err != nil {
				t.Error(err)
			}
		})
	}
}
