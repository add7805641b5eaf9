package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no ctxpack.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoProfiles is returned when the config file defines no profiles.
	ErrNoProfiles = zerr.New("config defines no profiles")

	// ErrProfileNotFound is returned when a requested profile does not exist.
	ErrProfileNotFound = zerr.New("profile not found")

	// ErrInvalidProfileName is returned when a profile name contains invalid characters.
	ErrInvalidProfileName = zerr.New("profile name can only contain alphanumeric characters, hyphens and underscores")

	// ErrScanFailed is returned when the scanner cannot walk the profile root.
	ErrScanFailed = zerr.New("failed to scan profile root")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file's content fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrStoreCreateFailed is returned when the cache directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache directory")

	// ErrStoreReadFailed is returned when the persisted cache cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read persisted cache")

	// ErrStoreWriteFailed is returned when the persisted cache cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write persisted cache")

	// ErrStoreMarshalFailed is returned when cache entries cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache entries")

	// ErrStoreUnmarshalFailed is returned when cache entries cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache entries")

	// ErrArchiveWriteFailed is returned when the packed archive cannot be written.
	ErrArchiveWriteFailed = zerr.New("failed to write archive")

	// ErrNoSelection is returned when packing is requested with nothing selected.
	ErrNoSelection = zerr.New("no files selected")

	// ErrNotTerminal is returned when the interactive UI is requested without a terminal.
	ErrNotTerminal = zerr.New("interactive mode requires a terminal, use 'ctxpack pack' instead")

	// ErrPackFailed is returned when the one-shot pack run fails.
	ErrPackFailed = zerr.New("pack failed")
)
