package ui

// ColorPrimary returns the escape code for primary text.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the escape code for secondary text.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorSuccess returns the escape code for positive outcomes.
func ColorSuccess() string { return GetCurrentTheme().Success }

// ColorWarning returns the escape code for highlighted figures.
func ColorWarning() string { return GetCurrentTheme().Warning }

// ColorError returns the escape code for failures.
func ColorError() string { return GetCurrentTheme().Error }

// ColorInfo returns the escape code for informational text.
func ColorInfo() string { return GetCurrentTheme().Info }

// ColorBold returns the escape code for bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the escape code for underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the escape code that clears formatting.
func ColorReset() string { return GetCurrentTheme().Reset }
