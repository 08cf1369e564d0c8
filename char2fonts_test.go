package char2fonts

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ContentFan/char2fonts/internal/fontsynth"
)

func TestFromBinary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.ot")
	defer teardown()
	//
	otf, err := FromBinary(fontsynth.SimpleFont("Facade Test",
		fontsynth.Segment{Start: 'A', End: 'Z', FirstGlyph: 5}))
	if err != nil {
		t.Fatalf("cannot parse synthetic font: %v", err)
	}
	family, _ := FamilyName(otf)
	if family != "Facade Test" {
		t.Errorf("expected family name 'Facade Test', got %q", family)
	}
	if !Supports(otf, 'Q') {
		t.Error("expected font to cover 'Q'")
	}
	if Supports(otf, 'q') {
		t.Error("expected font not to cover 'q'")
	}
}
