// Package embedded links every codec into the binary. Import it for side
// effects:
//
//	import _ "github.com/FocuswithJustin/gutenkjv/internal/embedded"
package embedded

import (
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/bin"
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/json"
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/keyed"
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/osis"
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/sqlite"
	_ "github.com/FocuswithJustin/gutenkjv/internal/formats/xlsx"
)
