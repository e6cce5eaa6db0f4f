package pagedata

import (
	"context"

	"github.com/like-buer/blog/pkg/model"
)

// Transform rewrites one page's data. Implementations receive and return
// the record explicitly and must not retain it.
type Transform interface {
	TransformPageData(model.PageData) model.PageData
}

// TransformFunc adapts a plain function to Transform.
type TransformFunc func(model.PageData) model.PageData

func (f TransformFunc) TransformPageData(page model.PageData) model.PageData {
	return f(page)
}

// Pipeline runs registered transforms in registration order.
type Pipeline struct {
	transforms []Transform
}

func NewPipeline(transforms ...Transform) *Pipeline {
	p := &Pipeline{}
	for _, t := range transforms {
		p.Register(t)
	}
	return p
}

// Register appends t to the pipeline. Nil transforms are ignored.
func (p *Pipeline) Register(t Transform) {
	if t == nil {
		return
	}
	p.transforms = append(p.transforms, t)
}

// Len reports the number of registered transforms.
func (p *Pipeline) Len() int {
	return len(p.transforms)
}

// ApplyPage runs every transform once over page.
func (p *Pipeline) ApplyPage(page model.PageData) model.PageData {
	for _, t := range p.transforms {
		page = t.TransformPageData(page)
	}
	return page
}

// Apply runs the pipeline exactly once per page and returns new records in
// input order. The input slice is left untouched.
func (p *Pipeline) Apply(ctx context.Context, pages []model.PageData) ([]model.PageData, error) {
	out := make([]model.PageData, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, p.ApplyPage(page))
	}
	return out, nil
}
