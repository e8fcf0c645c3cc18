package i18n

import "errors"

var (
	ErrFailedToReadCatalog  = errors.New("failed to read translation catalog")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")
	ErrInvalidCatalog       = errors.New("invalid translation catalog")
	ErrNoTranslations       = errors.New("no translations found")
	ErrLanguageNotSupported = errors.New("language not supported")
)
