package glbackend

import (
	"unsafe"

	gl43 "github.com/go-gl/gl/v4.3-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

var debugInstalled bool

// enableDebugOutput routes driver debug messages to log. Contexts older than
// 4.3 without KHR_debug have no callback; that is logged and ignored.
func enableDebugOutput(log *zap.Logger) {
	if err := gl43.Init(); err != nil {
		log.Warn("GL debug output unavailable", zap.Error(err))
		return
	}
	gl43.Enable(gl43.DEBUG_OUTPUT)
	gl43.Enable(gl43.DEBUG_OUTPUT_SYNCHRONOUS)
	gl43.DebugMessageCallback(func(source, gltype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
		gfx.LogDebugMessage(log, gfx.DebugMessage{
			Source:   debugSourceName(source),
			Type:     debugTypeName(gltype),
			Severity: debugSeverity(severity),
			ID:       id,
			Text:     message,
		})
	}, nil)
	debugInstalled = true
	log.Debug("GL debug output enabled")
}

func disableDebugOutput() {
	if !debugInstalled {
		return
	}
	gl43.DebugMessageCallback(nil, nil)
	gl43.Disable(gl43.DEBUG_OUTPUT)
	debugInstalled = false
}

func debugSourceName(source uint32) string {
	switch source {
	case gl43.DEBUG_SOURCE_API:
		return "api"
	case gl43.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "window_system"
	case gl43.DEBUG_SOURCE_SHADER_COMPILER:
		return "shader_compiler"
	case gl43.DEBUG_SOURCE_THIRD_PARTY:
		return "third_party"
	case gl43.DEBUG_SOURCE_APPLICATION:
		return "application"
	default:
		return "other"
	}
}

func debugTypeName(gltype uint32) string {
	switch gltype {
	case gl43.DEBUG_TYPE_ERROR:
		return "error"
	case gl43.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecated"
	case gl43.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefined"
	case gl43.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl43.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	case gl43.DEBUG_TYPE_MARKER:
		return "marker"
	case gl43.DEBUG_TYPE_PUSH_GROUP:
		return "push_group"
	case gl43.DEBUG_TYPE_POP_GROUP:
		return "pop_group"
	default:
		return "other"
	}
}

func debugSeverity(severity uint32) gfx.DebugSeverity {
	switch severity {
	case gl43.DEBUG_SEVERITY_HIGH:
		return gfx.SeverityHigh
	case gl43.DEBUG_SEVERITY_MEDIUM:
		return gfx.SeverityMedium
	case gl43.DEBUG_SEVERITY_LOW:
		return gfx.SeverityLow
	default:
		return gfx.SeverityNotification
	}
}
