package chi

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	domquery "github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

type sortRequest struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type pageRequest struct {
	Page int `json:"page"`
	Per  int `json:"per"`
}

type findRequest struct {
	Where  map[string]any `json:"where"`
	Fields []string       `json:"fields"`
	Sort   []sortRequest  `json:"sort"`
	Page   *pageRequest   `json:"page"`
}

type whereRequest struct {
	Where map[string]any `json:"where"`
}

type distinctRequest struct {
	Field string         `json:"field"`
	Where map[string]any `json:"where"`
}

type updateRequest struct {
	Set         map[string]any    `json:"set"`
	Unset       []string          `json:"unset"`
	Rename      map[string]string `json:"rename"`
	Inc         map[string]any    `json:"inc"`
	CurrentDate map[string]string `json:"current_date"`
	Where       map[string]any    `json:"where"`
}

type removeRequest struct {
	Where map[string]any `json:"where"`
	Force bool           `json:"force"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type distinctResponse struct {
	Values []any `json:"values"`
}

type matchedResponse struct {
	Matched int64 `json:"matched"`
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

type insertedResponse struct {
	ID any `json:"_id"`
}

type fieldResponse struct {
	Name     string `json:"name"`
	Alias    string `json:"alias"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Unique   bool   `json:"unique"`
}

type schemaResponse struct {
	EntityType string          `json:"entity_type"`
	Collection string          `json:"collection"`
	Fields     []fieldResponse `json:"fields"`
}

type healthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	EntityTypes []string          `json:"entity_types,omitempty"`
	Version     string            `json:"version"`
}

func sortFromRequest(in []sortRequest) (domquery.Sort, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(domquery.Sort, 0, len(in))
	for _, sr := range in {
		if sr.Field == "" {
			return nil, fmt.Errorf("sort field is required")
		}
		switch domquery.Direction(strings.ToUpper(sr.Direction)) {
		case domquery.Asc, "":
			out = append(out, domquery.Ascending(sr.Field))
		case domquery.Desc:
			out = append(out, domquery.Descending(sr.Field))
		default:
			return nil, fmt.Errorf("sort direction must be ASC or DESC, got %q", sr.Direction)
		}
	}
	return out, nil
}

func pageFromRequest(p *pageRequest) *domquery.Page {
	if p == nil {
		return nil
	}
	return &domquery.Page{Page: p.Page, Per: p.Per}
}

func (r findRequest) findOptions() (domquery.FindOptions, error) {
	sort, err := sortFromRequest(r.Sort)
	if err != nil {
		return domquery.FindOptions{}, err
	}
	return domquery.FindOptions{Fields: r.Fields, Sort: sort, Page: pageFromRequest(r.Page)}, nil
}

func (r findRequest) findOneOptions() (domquery.FindOneOptions, error) {
	sort, err := sortFromRequest(r.Sort)
	if err != nil {
		return domquery.FindOneOptions{}, err
	}
	return domquery.FindOneOptions{Fields: r.Fields, Sort: sort}, nil
}

func (r updateRequest) update() (domquery.Update, error) {
	u := domquery.Update{
		Set:    r.Set,
		Unset:  r.Unset,
		Rename: r.Rename,
		Inc:    r.Inc,
	}
	if len(r.CurrentDate) > 0 {
		u.CurrentDate = make(map[string]domquery.CurrentDateType, len(r.CurrentDate))
		for f, typ := range r.CurrentDate {
			switch domquery.CurrentDateType(typ) {
			case domquery.CurrentDate, "":
				u.CurrentDate[f] = domquery.CurrentDate
			case domquery.CurrentTimestamp:
				u.CurrentDate[f] = domquery.CurrentTimestamp
			default:
				return domquery.Update{}, fmt.Errorf("current_date type must be date or timestamp, got %q", typ)
			}
		}
	}
	return u, nil
}

// whereFromRequest turns hex strings under _id into ObjectIDs, including
// inside operator documents like {"$in": [...]} and $and/$or/$nor lists.
func whereFromRequest(in map[string]any) domquery.Where {
	if len(in) == 0 {
		return nil
	}
	return filterIDs(in)
}

func filterIDs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch k {
		case schema.IDField:
			out[k] = objectIDs(v)
		case "$and", "$or", "$nor":
			out[k] = filterListIDs(v)
		default:
			out[k] = v
		}
	}
	return out
}

func filterListIDs(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(list))
	for i, item := range list {
		if sub, ok := item.(map[string]any); ok {
			out[i] = filterIDs(sub)
			continue
		}
		out[i] = item
	}
	return out
}

func objectIDs(v any) any {
	switch t := v.(type) {
	case string:
		if id, err := primitive.ObjectIDFromHex(t); err == nil {
			return id
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = objectIDs(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for op, item := range t {
			out[op] = objectIDs(item)
		}
		return out
	}
	return v
}

func entityToResponse(e *domentity.Entity) map[string]any {
	out := e.Values()
	if e.HasID() {
		out[schema.IDField] = e.ID().Hex()
	}
	return out
}

func entitiesToResponse(list []*domentity.Entity) []map[string]any {
	out := make([]map[string]any, len(list))
	for i, e := range list {
		out[i] = entityToResponse(e)
	}
	return out
}

func schemaToResponse(s *schema.Schema) schemaResponse {
	params := s.Params()
	fields := make([]fieldResponse, len(params))
	for i, p := range params {
		fields[i] = fieldResponse{
			Name:     p.Name(),
			Alias:    p.Alias(),
			Type:     string(p.Type()),
			Required: p.Required(),
			Unique:   p.Unique(),
		}
	}
	return schemaResponse{EntityType: s.EntityType(), Collection: s.Collection(), Fields: fields}
}
