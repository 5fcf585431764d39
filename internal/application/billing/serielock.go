package billing

import (
	"fmt"
	"sync"
)

// serieLocker serializa a emissão por (empresa, série). O número da nota é
// lido, enviado ao provedor e gravado sob o mesmo lock, então duas vendas
// simultâneas da mesma empresa nunca disputam o mesmo numero dentro da
// instância. Entre instâncias, a constraint única do banco é o backstop.
type serieLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSerieLocker() *serieLocker {
	return &serieLocker{locks: make(map[string]*sync.Mutex)}
}

// acquire trava a chave (companyID, serie) e devolve o mutex para unlock.
func (l *serieLocker) acquire(companyID string, serie int) *sync.Mutex {
	key := fmt.Sprintf("%s#%d", companyID, serie)
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}
