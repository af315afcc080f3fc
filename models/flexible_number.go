package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleNumber accepte un nombre JSON ou une chaîne numérique ("42")
type FlexibleNumber struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implémente le unmarshaler pour accepter les deux formes
func (fn *FlexibleNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*fn = FlexibleNumber{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*fn = FlexibleNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("nombre invalide: %q", s)
		}
		*fn = FlexibleNumber{Value: v, Set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("nombre invalide: %s", string(b))
	}
	*fn = FlexibleNumber{Value: v, Set: true}
	return nil
}

// MarshalJSON retourne le nombre tel quel (null si absent)
func (fn FlexibleNumber) MarshalJSON() ([]byte, error) {
	if !fn.Set {
		return []byte("null"), nil
	}
	return json.Marshal(fn.Value)
}

// Int64 retourne la valeur entière, faux si absente, non finie ou fractionnaire
func (fn FlexibleNumber) Int64() (int64, bool) {
	if !fn.Set || math.IsNaN(fn.Value) || math.IsInf(fn.Value, 0) {
		return 0, false
	}
	if fn.Value != math.Trunc(fn.Value) {
		return 0, false
	}
	return int64(fn.Value), true
}
