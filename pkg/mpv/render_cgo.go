//go:build mpv_cgo

package mpv

/*
#include <stdlib.h>
#include <mpv/client.h>
#include <mpv/render_gl.h>

extern void mpvkitRenderUpdate(void *d);
extern void *mpvkitGetProcAddress(void *d, const char *name);

static int mpvkit_render_create(mpv_render_context **out, mpv_handle *h, void *proc_ctx) {
	mpv_opengl_init_params gl_params = {
		.get_proc_address = mpvkitGetProcAddress,
		.get_proc_address_ctx = proc_ctx,
	};
	mpv_render_param params[] = {
		{MPV_RENDER_PARAM_API_TYPE, MPV_RENDER_API_TYPE_OPENGL},
		{MPV_RENDER_PARAM_OPENGL_INIT_PARAMS, &gl_params},
		{0}
	};
	return mpv_render_context_create(out, h, params);
}

static void mpvkit_render_set_update(mpv_render_context *rc, void *d) {
	mpv_render_context_set_update_callback(rc, mpvkitRenderUpdate, d);
}

static void mpvkit_render_clear_update(mpv_render_context *rc) {
	mpv_render_context_set_update_callback(rc, NULL, NULL);
}

static int mpvkit_render_frame(mpv_render_context *rc, int fbo, int w, int h, int flip) {
	mpv_opengl_fbo fbo_params = {
		.fbo = fbo,
		.w = w,
		.h = h,
	};
	mpv_render_param params[] = {
		{MPV_RENDER_PARAM_OPENGL_FBO, &fbo_params},
		{MPV_RENDER_PARAM_FLIP_Y, &flip},
		{0}
	};
	return mpv_render_context_render(rc, params);
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// RenderContext drives mpv's OpenGL render API for one engine. It must be
// created and used with a GL context current on the calling goroutine, and
// freed before that GL context is destroyed.
type RenderContext struct {
	rc     *C.mpv_render_context
	proc   cgo.Handle
	update cgo.Handle
}

// NewRenderContext binds the engine's render subsystem to the caller's GL
// context. getProc resolves GL symbols and is retained for the context's
// lifetime; it is invoked from the calling goroutine only.
func NewRenderContext(h *Handle, getProc func(name string) unsafe.Pointer) (*RenderContext, error) {
	proc := cgo.NewHandle(getProc)

	var rc *C.mpv_render_context
	status := C.mpvkit_render_create(&rc, h.handle, unsafe.Pointer(uintptr(proc)))
	if status < 0 {
		proc.Delete()
		return nil, apiError("render-context-create", "", status)
	}

	return &RenderContext{rc: rc, proc: proc}, nil
}

// SetUpdateCallback registers fn to run on an arbitrary engine thread when a
// new frame should be drawn. fn must only do a non-blocking notification.
func (r *RenderContext) SetUpdateCallback(fn func()) {
	old := r.update
	handle := cgo.NewHandle(fn)
	r.update = handle
	C.mpvkit_render_set_update(r.rc, unsafe.Pointer(uintptr(handle)))
	if old != 0 {
		old.Delete()
	}
}

// Render draws one frame into the given framebuffer at the given size.
func (r *RenderContext) Render(fbo, width, height int, flipY bool) error {
	flip := C.int(0)
	if flipY {
		flip = 1
	}
	status := C.mpvkit_render_frame(r.rc, C.int(fbo), C.int(width), C.int(height), flip)
	if status < 0 {
		return apiError("render", "", C.int(status))
	}
	return nil
}

// Free unregisters the update callback and destroys the render context. It
// must run before the GL objects the context references are dropped, and
// before the engine handle is terminated.
func (r *RenderContext) Free() {
	if r.rc != nil {
		C.mpvkit_render_clear_update(r.rc)
		C.mpv_render_context_free(r.rc)
		r.rc = nil
	}
	if r.update != 0 {
		r.update.Delete()
		r.update = 0
	}
	if r.proc != 0 {
		r.proc.Delete()
		r.proc = 0
	}
}
