package main

import (
	"bytes"
	"chat-notify/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	jobID := uuid.MustParse("0b5c1d9e-0000-4000-8000-000000000000")

	render(&out, []domain.Delivery{{
		ID:     uuid.New(),
		JobID:  jobID,
		UserID: "bob",
		Title:  "alice",
		Status: domain.DeliveryFailed,
		Error:  "NotRegistered",
		At:     time.Now(),
	}})

	req.Contains(out.String(), "FAILED")
	req.Contains(out.String(), "bob")
	req.Contains(out.String(), "0b5c1d9e")
	req.NotContains(out.String(), jobID.String())
	req.Contains(out.String(), "NotRegistered")
}
