package epubdoc

import "errors"

// Sentinel errors returned by the epubdoc package.
var (
	// ErrDRMProtected indicates the book is protected by DRM
	// (e.g., Adobe ADEPT, Apple FairPlay, Readium LCP) and cannot be read.
	ErrDRMProtected = errors.New("epubdoc: file is DRM protected")

	// ErrInvalidEPub indicates the container is not a usable ePub
	// (missing package document, no spine, unreadable metadata).
	ErrInvalidEPub = errors.New("epubdoc: invalid ePub file")

	// ErrFileNotFound indicates the requested file does not exist
	// in the archive.
	ErrFileNotFound = errors.New("epubdoc: file not found in archive")

	// ErrNotOpen is returned by operations on a closed Book.
	ErrNotOpen = errors.New("epubdoc: book is not open")

	// ErrNoContent indicates a content item could not be turned into tokens.
	ErrNoContent = errors.New("epubdoc: content item has no usable markup")
)
