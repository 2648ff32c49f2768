package httpapi

import "fmt"

func pathf(format string, args ...any) string { return fmt.Sprintf(format, args...) }
