// Package services implements the ImuneTrack use cases on top of the
// repositories. Every mutating call runs in one transaction; failures the
// client can act on are *common.Error values.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imunetrack/internal/common"
)

func userNotFound(id int64) error {
	return common.NotFound(fmt.Sprintf("Usuário com ID %d não encontrado", id))
}

func vaccineNotFound(id int64) error {
	return common.NotFound(fmt.Sprintf("Vacina com ID %d não encontrada", id))
}

func entryNotFound(id int64) error {
	return common.NotFound(fmt.Sprintf("Registro com ID %d não encontrado", id))
}

// referenceGone covers a user or vaccine removed while a history write was
// in flight.
func referenceGone() error {
	return common.Conflict("Usuário ou vacina não existe mais")
}

// translate replaces a repository sentinel with the client-facing error
// built by notFound or conflict. Use it right at the repository call.
func translate(err error, notFound, conflict func() error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, common.ErrorNotFound):
		return notFound()
	case conflict != nil && errors.Is(err, common.ErrorConflict):
		return conflict()
	}
	return err
}
