package cubemap

import "testing"

func TestFaceNames(t *testing.T) {
	expected := []string{"px", "nx", "py", "ny", "pz", "nz"}
	for i, face := range AllFaces {
		if int(face) != i {
			t.Errorf("AllFaces[%d] = %d", i, face)
		}
		if face.String() != expected[i] {
			t.Errorf("face %d: expected %q, got %q", i, expected[i], face.String())
		}
		if got := face.FileName("hdr"); got != expected[i]+".hdr" {
			t.Errorf("face %d: expected file %s.hdr, got %s", i, expected[i], got)
		}
		if !face.Valid() {
			t.Errorf("face %d should be valid", i)
		}
	}

	invalid := map[Face]string{-1: "face(-1)", 6: "face(6)"}
	for bad, name := range invalid {
		if bad.Valid() {
			t.Errorf("face %d should be invalid", bad)
		}
		if bad.String() != name {
			t.Errorf("expected %q, got %q", name, bad.String())
		}
	}
}
