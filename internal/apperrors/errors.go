package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that a fund with the given ID is not configured.
	ErrFundNotFound = errors.New("fund not found")

	// ErrObservationNotFound indicates no YTM record for a specific fund and
	// report period combination.
	ErrObservationNotFound = errors.New("observation not found")

	// ErrProviderNotFound indicates that no extraction strategy is registered
	// for a fund's provider.
	ErrProviderNotFound = errors.New("provider not found")
)

// Extraction errors represent failures while locating or parsing the YTM
// figure in a fetched document. They are terminal for the current fund and
// month but never abort the rest of a batch run.
var (
	// ErrMalformedNumber indicates that a candidate numeric string matched a
	// label but could not be converted to a decimal value.
	ErrMalformedNumber = errors.New("malformed number")

	// ErrValueNotFound indicates that no label/value pattern matched anywhere
	// in the document.
	ErrValueNotFound = errors.New("value not found")
)

// Document authentication errors represent a fetched document that is
// readable but is not the expected factsheet. These guard against silently
// recording a figure from the wrong fund, month, or document class.
var (
	// ErrNotAPdf indicates that downloaded bytes do not carry the %PDF
	// signature, or that no text could be decoded from them.
	ErrNotAPdf = errors.New("not a pdf document")

	// ErrWrongDocumentType indicates that the document belongs to an excluded
	// class, such as a KIID or PRIIPs regulatory sheet.
	ErrWrongDocumentType = errors.New("wrong document type")

	// ErrIdentityMismatch indicates that the document's ISIN or fund name does
	// not match the fund being processed.
	ErrIdentityMismatch = errors.New("document identity mismatch")

	// ErrPeriodMismatch indicates that the document does not cover the
	// expected report month.
	ErrPeriodMismatch = errors.New("document period mismatch")
)

// Infrastructure errors represent system-level failures outside the
// document itself.
var (
	// ErrTimeout indicates that fetching a source exceeded its deadline.
	ErrTimeout = errors.New("source fetch timed out")

	// ErrSourceUnavailable indicates a non-timeout fetch failure, such as a
	// non-200 status or a transport error that retries did not resolve.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrStorageUnavailable indicates that the observation store cannot be
	// reached. Unlike every other error in this package it aborts a batch
	// run, because nothing further can be persisted.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Business logic errors represent validation failures or constraint
// violations on caller-supplied input.
var (
	// ErrInvalidPeriod indicates that a report period parameter is missing or
	// not in an accepted form.
	ErrInvalidPeriod = errors.New("invalid report period")

	// ErrInvalidValue indicates that a YTM value is outside the plausible
	// range for a bond fund yield.
	ErrInvalidValue = errors.New("ytm value out of range")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data. These errors indicate that an operation failed, but
// not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveFunds        = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveObservations = errors.New("failed to retrieve observations")
	ErrFailedToRetrieveHistory      = errors.New("failed to retrieve fund history")
	ErrFailedToStoreObservation     = errors.New("failed to store observation")
	ErrFailedToRunExtraction        = errors.New("failed to run extraction")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
