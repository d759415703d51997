package gfx

import "errors"

var (
	// ErrIncompleteTarget reports a render target that fails framebuffer completeness.
	ErrIncompleteTarget = errors.New("render target incomplete")
	// ErrNoAttachments is wrapped with ErrIncompleteTarget when a target has no attachment.
	ErrNoAttachments = errors.New("no attachments")
	// ErrAttachmentSize is wrapped with ErrIncompleteTarget when attachment sizes differ.
	ErrAttachmentSize = errors.New("attachment sizes differ")
	// ErrAttachmentFormat is wrapped with ErrIncompleteTarget for a format/slot mismatch.
	ErrAttachmentFormat = errors.New("attachment format mismatch")

	// ErrBadTexture reports an invalid texture description.
	ErrBadTexture = errors.New("invalid texture description")
	// ErrShaderCompile reports a shader compilation failure.
	ErrShaderCompile = errors.New("shader compile failed")
	// ErrProgramLink reports a program link failure.
	ErrProgramLink = errors.New("program link failed")
	// ErrUnknownProgram is returned by devices that cannot execute a named program.
	ErrUnknownProgram = errors.New("unknown program")
)
