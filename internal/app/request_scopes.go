package app

import (
	"context"
	"errors"
	"strings"
)

const (
	requestScopeSnapshot = "snapshot"
	requestScopeGit      = "worktree_git"
)

// Detail cache scopes. Switching the inspected session replaces the
// inspect scope; visible-row previews live in their own scope.
const (
	cacheScopeInspect = "inspect"
	cacheScopeVisible = "visible"
)

type requestScope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (m *Model) replaceRequestScope(name string) context.Context {
	if m == nil {
		return context.Background()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return context.Background()
	}
	m.cancelRequestScope(name)
	if m.requestScopes == nil {
		m.requestScopes = map[string]requestScope{}
	}
	ctx, cancel := context.WithCancel(m.baseContext())
	m.requestScopes[name] = requestScope{ctx: ctx, cancel: cancel}
	return ctx
}

func (m *Model) cancelRequestScope(name string) {
	if m == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" || m.requestScopes == nil {
		return
	}
	scope, ok := m.requestScopes[name]
	if !ok {
		return
	}
	if scope.cancel != nil {
		scope.cancel()
	}
	delete(m.requestScopes, name)
}

func (m *Model) cancelAllRequestScopes() {
	for name := range m.requestScopes {
		m.cancelRequestScope(name)
	}
}

func (m *Model) baseContext() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

func isCanceledRequestError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled)
}
