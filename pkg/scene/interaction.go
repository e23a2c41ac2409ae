package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
)

var (
	// ErrNoTarget is returned when an object drag starts without a figure.
	ErrNoTarget = errors.New("scene: no figure to transform")
	// ErrBusy is returned when a drag starts while another is in progress.
	ErrBusy = errors.New("scene: interaction already in progress")
)

// Mode is the interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeTransformingObject
	ModeTransformingWorld
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeTransformingObject:
		return "object"
	case ModeTransformingWorld:
		return "world"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Interaction drives a drag. Begin snapshots the matrix the mode targets;
// every update recomputes the live matrix as backup · delta so that edits
// never compound onto the live matrix.
type Interaction struct {
	world  *World
	mode   Mode
	figure *Figure
	acc    math3d.Mat4
}

// Mode returns the current state.
func (in *Interaction) Mode() Mode {
	return in.mode
}

// Figure returns the figure being transformed, or nil.
func (in *Interaction) Figure() *Figure {
	return in.figure
}

// Begin enters mode. fig is required for ModeTransformingObject and ignored
// otherwise.
func (in *Interaction) Begin(mode Mode, fig *Figure) error {
	if in.mode != ModeIdle {
		return fmt.Errorf("%w: %s", ErrBusy, in.mode)
	}

	switch mode {
	case ModeTransformingObject:
		if fig == nil {
			return ErrNoTarget
		}
		fig.SaveBackup()
		in.figure = fig
	case ModeTransformingWorld:
		in.world.backup = in.world.transform
		in.figure = nil
	default:
		return fmt.Errorf("scene: cannot begin %s", mode)
	}

	in.mode = mode
	in.acc = math3d.Identity()
	return nil
}

// Update sets the live matrix to backup · delta, where delta is the total
// change since Begin. It does nothing while idle.
func (in *Interaction) Update(delta math3d.Mat4) {
	switch in.mode {
	case ModeTransformingObject:
		in.acc = delta
		in.figure.transform = in.figure.backup.Mul(delta)
	case ModeTransformingWorld:
		in.acc = delta
		in.world.transform = in.world.backup.Mul(delta)
	}
}

// Apply accumulates an incremental step and recomputes the live matrix from
// the backup.
func (in *Interaction) Apply(step math3d.Mat4) {
	if in.mode == ModeIdle {
		return
	}
	in.Update(step.Mul(in.acc))
}

// Delta returns the accumulated change since Begin.
func (in *Interaction) Delta() math3d.Mat4 {
	if in.mode == ModeIdle {
		return math3d.Identity()
	}
	return in.acc
}

// End keeps the live matrix as the new baseline and returns to idle.
func (in *Interaction) End() {
	switch in.mode {
	case ModeTransformingObject:
		in.figure.SaveBackup()
	case ModeTransformingWorld:
		in.world.backup = in.world.transform
	}
	in.reset()
}

// Cancel restores the matrix saved by Begin and returns to idle.
func (in *Interaction) Cancel() {
	switch in.mode {
	case ModeTransformingObject:
		in.figure.RestoreBackup()
	case ModeTransformingWorld:
		in.world.transform = in.world.backup
	}
	in.reset()
}

func (in *Interaction) reset() {
	in.mode = ModeIdle
	in.figure = nil
	in.acc = math3d.Identity()
}

// RotationDelta returns a rotation by angle about the locked axis. With no
// lock the rotation is about the view axis.
func (vs ViewState) RotationDelta(axis Axis, angle float64) math3d.Mat4 {
	if vs.AxisLock != AxisAll {
		axis = vs.AxisLock
	}
	switch axis {
	case AxisX:
		return math3d.RotateX(angle)
	case AxisY:
		return math3d.RotateY(angle)
	default:
		return math3d.RotateZ(angle)
	}
}

// TranslationDelta returns a translation by v, keeping only the locked
// component when an axis is locked.
func (vs ViewState) TranslationDelta(v math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(vs.lock(v, 0))
}

// ScaleDelta returns a scale by factor on the locked axis, or a uniform
// scale when none is locked.
func (vs ViewState) ScaleDelta(factor float64) math3d.Mat4 {
	if vs.AxisLock == AxisAll {
		return math3d.ScaleUniform(factor)
	}
	return math3d.Scale(vs.lock(math3d.V3(factor, factor, factor), 1))
}

// lock replaces the unlocked components of v with rest.
func (vs ViewState) lock(v math3d.Vec3, rest float64) math3d.Vec3 {
	switch vs.AxisLock {
	case AxisX:
		return math3d.V3(v.X, rest, rest)
	case AxisY:
		return math3d.V3(rest, v.Y, rest)
	case AxisZ:
		return math3d.V3(rest, rest, v.Z)
	}
	return v
}
