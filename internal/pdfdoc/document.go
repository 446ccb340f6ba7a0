// Package pdfdoc wraps a parsed PDF as an immutable document handle.
//
// A Document never changes after Open. Metadata edits produce a new
// Document from a fresh parse of the bytes, so a handle can be read by any
// number of requests while a remediation builds its replacement.
package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// Document is a parsed PDF and the bytes it was parsed from.
type Document struct {
	data []byte
	ctx  *model.Context
}

func config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// parse reads and validates data. pdfcpu panics on some malformed input;
// that is reported as a parse failure like any other.
func parse(data []byte) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("malformed document: %v", r)
		}
	}()
	ctx, err = api.ReadValidateAndOptimize(bytes.NewReader(data), config())
	if err != nil {
		return nil, err
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("document has no pages")
	}
	return ctx, nil
}

// Open parses data. Failures are *a11y.ParseError.
func Open(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &a11y.ParseError{Err: fmt.Errorf("empty document")}
	}
	ctx, err := parse(data)
	if err != nil {
		return nil, &a11y.ParseError{Err: err}
	}
	return &Document{data: data, ctx: ctx}, nil
}

// Context exposes the parsed object graph for extraction. Callers must
// treat it as read-only.
func (d *Document) Context() *model.Context { return d.ctx }

// Bytes returns the serialized document. The slice must not be modified.
func (d *Document) Bytes() []byte { return d.data }

// Size is the length of the serialized document in bytes.
func (d *Document) Size() int { return len(d.data) }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.ctx.PageCount }

// Title returns the Info dictionary title, trimmed. Empty when absent.
func (d *Document) Title() string {
	info := infoDict(d.ctx)
	if info == nil {
		return ""
	}
	o, ok := info.Find("Title")
	if !ok {
		return ""
	}
	o, _ = d.ctx.Dereference(o)
	return strings.TrimSpace(ObjectText(o))
}

// Language returns the catalog /Lang entry, trimmed. Empty when absent.
func (d *Document) Language() string {
	cat, err := d.ctx.Catalog()
	if err != nil {
		return ""
	}
	o, ok := cat.Find("Lang")
	if !ok {
		return ""
	}
	o, _ = d.ctx.Dereference(o)
	return strings.TrimSpace(ObjectText(o))
}

func infoDict(ctx *model.Context) types.Dict {
	if ctx.Info == nil {
		return nil
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil
	}
	return d
}

// WithTitle returns a new Document whose Info /Title is title. The
// receiver is left untouched.
func (d *Document) WithTitle(title string) (*Document, error) {
	return d.rewrite(func(ctx *model.Context) error {
		info := infoDict(ctx)
		if info == nil {
			info = types.NewDict()
			ir, err := ctx.IndRefForNewObject(info)
			if err != nil {
				return fmt.Errorf("create info dict: %w", err)
			}
			ctx.Info = ir
		}
		info.Update("Title", EncodeText(title))
		return nil
	})
}

// WithLanguage returns a new Document whose catalog /Lang is tag.
func (d *Document) WithLanguage(tag string) (*Document, error) {
	return d.rewrite(func(ctx *model.Context) error {
		cat, err := ctx.Catalog()
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		cat.Update("Lang", EncodeText(tag))
		return nil
	})
}

// rewrite re-parses the document, applies mutate and serializes the result.
func (d *Document) rewrite(mutate func(*model.Context) error) (*Document, error) {
	ctx, err := parse(d.data)
	if err != nil {
		return nil, fmt.Errorf("reparse document: %w", err)
	}
	if err := mutate(ctx); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	out, err := Open(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("reopen rewritten document: %w", err)
	}
	return out, nil
}
