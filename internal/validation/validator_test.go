// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package validation

import (
	"strings"
	"testing"
)

type recommendationQuery struct {
	UserID    string `validate:"required,max=128"`
	Algorithm string `validate:"algorithm"`
	Limit     int    `validate:"min=1,max=50"`
}

func TestValidateStruct_Passes(t *testing.T) {
	t.Parallel()

	q := recommendationQuery{UserID: "u1", Algorithm: "hybrid", Limit: 6}
	if err := ValidateStruct(&q); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}

	// Empty algorithm defaults downstream and must validate.
	q.Algorithm = ""
	if err := ValidateStruct(&q); err != nil {
		t.Errorf("empty algorithm rejected: %v", err)
	}
}

func TestValidateStruct_SingleError(t *testing.T) {
	t.Parallel()

	q := recommendationQuery{Algorithm: "hybrid", Limit: 6}
	verr := ValidateStruct(&q)
	if verr == nil {
		t.Fatal("expected a validation error")
	}

	if len(verr.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(verr.Errors()))
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if apiErr.Message != "UserID is required" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "UserID" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	q := recommendationQuery{Algorithm: "oracle", Limit: 99}
	verr := ValidateStruct(&q)
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if !strings.Contains(apiErr.Message, "Algorithm must be one of") {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "Limit must be at most 50") {
		t.Errorf("message = %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details must list the fields")
	}
}

func TestValidateStruct_AlgorithmValidator(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"", "collaborative", "content", "popularity", "hybrid"} {
		q := recommendationQuery{UserID: "u1", Algorithm: valid, Limit: 1}
		if err := ValidateStruct(&q); err != nil {
			t.Errorf("algorithm %q rejected: %v", valid, err)
		}
	}

	q := recommendationQuery{UserID: "u1", Algorithm: "magic", Limit: 1}
	if err := ValidateStruct(&q); err == nil {
		t.Error("unknown algorithm must be rejected")
	}
}

func TestValidateStruct_StringMinMessage(t *testing.T) {
	t.Parallel()

	type form struct {
		Name string `validate:"min=3"`
	}
	verr := ValidateStruct(&form{Name: "ab"})
	if verr == nil {
		t.Fatal("expected a validation error")
	}
	if got := verr.Error(); got != "Name must be at least 3 characters" {
		t.Errorf("message = %q", got)
	}
}
