package status

import (
	stderrors "errors"
	"testing"

	"page-digest/core/domain"
	"page-digest/core/errors"
)

type recorder struct {
	views []domain.StatusView
}

func (r *recorder) RenderStatus(v domain.StatusView) {
	r.views = append(r.views, v)
}

func (r *recorder) last() domain.StatusView {
	return r.views[len(r.views)-1]
}

func TestMachine_StartsReady(t *testing.T) {
	r := &recorder{}
	m := New(r)

	if m.Status() != domain.StatusReady {
		t.Errorf("Status() = %v, want ready", m.Status())
	}
	if len(r.views) != 1 {
		t.Fatalf("renders = %d, want 1", len(r.views))
	}
	v := r.last()
	if !v.DigestEnabled || v.RestoreEnabled {
		t.Errorf("ready view = %+v", v)
	}
}

func TestMachine_HappyPath(t *testing.T) {
	r := &recorder{}
	m := New(r)

	if err := m.Begin(domain.ModeSmall, false); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	v := r.last()
	if v.Status != domain.StatusProcessing || v.DigestEnabled || v.RestoreEnabled || v.Label != LabelProcessing {
		t.Errorf("processing view = %+v", v)
	}

	m.Succeed()
	v = r.last()
	if v.Status != domain.StatusDigested || !v.DigestEnabled || !v.RestoreEnabled || v.ActiveMode != domain.ModeSmall {
		t.Errorf("digested view = %+v", v)
	}

	if !m.Restore() {
		t.Fatal("Restore() from digested should succeed")
	}
	v = r.last()
	if v.Status != domain.StatusReady || v.ActiveMode != "" {
		t.Errorf("restored view = %+v", v)
	}
	if len(r.views) != 4 {
		t.Errorf("renders = %d, want 4", len(r.views))
	}
}

func TestMachine_CachedLabel(t *testing.T) {
	r := &recorder{}
	m := New(r)
	_ = m.Begin(domain.ModeLarge, true)

	if v := r.last(); !v.FromCache || v.Label != LabelApplying {
		t.Errorf("view = %+v, want applying label", v)
	}
}

func TestMachine_BusyWhileProcessing(t *testing.T) {
	m := New(nil)
	_ = m.Begin(domain.ModeLarge, false)

	if err := m.Begin(domain.ModeSmall, false); !stderrors.Is(err, errors.ErrBusy) {
		t.Errorf("Begin() while processing = %v, want ErrBusy", err)
	}
	if m.View().Mode != domain.ModeLarge {
		t.Error("rejected Begin must not change the mode")
	}
}

func TestMachine_FailReturnsToReady(t *testing.T) {
	m := New(nil)
	_ = m.Begin(domain.ModeLarge, false)
	m.Fail()

	if m.Status() != domain.StatusReady {
		t.Errorf("Status() = %v, want ready", m.Status())
	}
}

func TestMachine_DigestFromDigested(t *testing.T) {
	m := New(nil)
	_ = m.Begin(domain.ModeLarge, false)
	m.Succeed()

	if err := m.Begin(domain.ModeSmall, true); err != nil {
		t.Errorf("Begin() from digested error = %v", err)
	}
}

func TestMachine_IgnoresInvalidTransitions(t *testing.T) {
	r := &recorder{}
	m := New(r)

	if m.Restore() {
		t.Error("Restore() from ready should be ignored")
	}
	m.Succeed()
	m.Fail()

	if m.Status() != domain.StatusReady || len(r.views) != 1 {
		t.Errorf("status = %v, renders = %d", m.Status(), len(r.views))
	}
}
