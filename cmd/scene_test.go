package cmd

import (
	"testing"

	"github.com/sosoyan/aton/policy"
)

func TestParseRegion(t *testing.T) {
	specs := []struct {
		in     string
		exp    policy.RegionSettings
		expErr bool
	}{
		{"0,0,1920,1080", policy.RegionSettings{Enabled: true, R: 1920, T: 1080}, false},
		{" 10, 20 ,30,40", policy.RegionSettings{Enabled: true, X: 10, Y: 20, R: 30, T: 40}, false},
		{"1,2,3", policy.RegionSettings{}, true},
		{"a,b,c,d", policy.RegionSettings{}, true},
	}

	for index, spec := range specs {
		got, err := parseRegion(spec.in)
		if spec.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != spec.exp {
			t.Fatalf("[spec %d] expected %+v; got %+v", index, spec.exp, got)
		}
	}
}
