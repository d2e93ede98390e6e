package dbassert

import (
	"fmt"

	"github.com/roach88/dbcheck/internal/report"
)

// check attaches desc to the failure carried by err.
func check(desc string, err error) error {
	if err == nil {
		return nil
	}
	return report.FromError(err).WithDescription(desc)
}

// navigationError turns an error of the table model into the sticky error
// of the handle being navigated to.
func navigationError(err error) error {
	if err == nil {
		return nil
	}
	return report.FromError(err)
}

func indexDescription(kind string, i int, parent string) string {
	return fmt.Sprintf("%s at index %d of %s", kind, i, parent)
}

func namedDescription(kind string, i int, name, parent string) string {
	return fmt.Sprintf("%s at index %d (column name : %s) of %s", kind, i, name, parent)
}
