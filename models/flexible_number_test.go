package models

import (
	"encoding/json"
	"testing"
)

func TestFlexibleNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSet bool
		want    float64
		wantErr bool
	}{
		{"nombre", `42`, true, 42, false},
		{"chaîne numérique", `"1500"`, true, 1500, false},
		{"chaîne avec espaces", `" 7 "`, true, 7, false},
		{"décimal", `12.5`, true, 12.5, false},
		{"null", `null`, false, 0, false},
		{"vide", `""`, false, 0, false},
		{"invalide", `"abc"`, false, 0, true},
		{"booléen", `true`, false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fn FlexibleNumber
			err := json.Unmarshal([]byte(tt.input), &fn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() erreur = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if fn.Set != tt.wantSet || fn.Value != tt.want {
				t.Errorf("UnmarshalJSON() = %+v, attendu Set=%v Value=%v", fn, tt.wantSet, tt.want)
			}
		})
	}
}

func TestFlexibleNumber_Int64(t *testing.T) {
	if v, ok := (FlexibleNumber{Value: 3, Set: true}).Int64(); !ok || v != 3 {
		t.Errorf("Int64() = %v, %v", v, ok)
	}
	if _, ok := (FlexibleNumber{Value: 3.2, Set: true}).Int64(); ok {
		t.Error("Int64() doit refuser une valeur fractionnaire")
	}
	if _, ok := (FlexibleNumber{}).Int64(); ok {
		t.Error("Int64() doit refuser une valeur absente")
	}
}

func TestMediaItem_Validate(t *testing.T) {
	img := MediaItem{Kind: KindImage}
	if err := img.Validate(); err == nil {
		t.Error("une image sans url doit être refusée")
	}
	img.URL = "https://res.cloudinary.com/x.jpg"
	if err := img.Validate(); err != nil {
		t.Errorf("Validate() erreur = %v", err)
	}

	vid := MediaItem{Kind: KindVideo, URL: "ignored"}
	if err := vid.Validate(); err == nil {
		t.Error("une vidéo sans youtubeId doit être refusée")
	}
}

func TestParseMediaKind(t *testing.T) {
	for _, raw := range []string{"image", "images"} {
		if k, ok := ParseMediaKind(raw); !ok || k != KindImage {
			t.Errorf("ParseMediaKind(%q) = %v, %v", raw, k, ok)
		}
	}
	if _, ok := ParseMediaKind("audio"); ok {
		t.Error("ParseMediaKind(audio) doit échouer")
	}
}
