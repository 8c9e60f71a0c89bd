// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/dberr"
)

/*
TestWrap verifies the classification of common pgx failures.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	notFound := dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "find_account")
	assert.ErrorIs(t, notFound, dberr.ErrNotFound)
	assert.True(t, apperr.IsNotFound(notFound))

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"}
	duplicate := dberr.Wrap(unique, "insert_account")
	assert.ErrorIs(t, duplicate, dberr.ErrDuplicate)
	assert.True(t, dberr.IsUniqueViolation(unique))

	internal := dberr.Wrap(errors.New("connection reset"), "insert_account")
	ae := apperr.As(internal)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
}
