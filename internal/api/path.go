package api

import (
	"fmt"
	"strconv"
	"strings"
)

// APIVersion is the version prefix of every resource path.
const APIVersion = 1

// resourcePath joins segments under the version prefix and adds the .json
// extension. Segments are interpolated as-is; callers pass safe identifiers.
func resourcePath(segments ...any) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(strconv.Itoa(APIVersion))
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(fmt.Sprint(s))
	}
	b.WriteString(".json")
	return b.String()
}
