package attendance

import (
	"sort"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

// Key addresses a cell of the attendance matrix.
type Key struct {
	EmployeeID string
	Date       calendar.Date
}

func (k Key) String() string {
	return k.EmployeeID + "|" + k.Date.String()
}

// Index maps (employee, day) to at most one record. When several records
// share a key the one inserted last wins. Index is not safe for concurrent
// use; callers guard it.
type Index struct {
	byKey map[Key]Record
	byID  map[string]Key
}

func NewIndex(records []Record) *Index {
	idx := &Index{
		byKey: make(map[Key]Record, len(records)),
		byID:  make(map[string]Key, len(records)),
	}
	for _, r := range records {
		idx.Put(r)
	}
	return idx
}

// Put inserts or replaces the record at r's key.
func (idx *Index) Put(r Record) {
	key := r.Key()
	if prev, ok := idx.byKey[key]; ok && prev.ID != "" && prev.ID != r.ID {
		delete(idx.byID, prev.ID)
	}
	idx.byKey[key] = r
	if r.ID != "" {
		idx.byID[r.ID] = key
	}
}

func (idx *Index) Get(employeeID string, date calendar.Date) (Record, bool) {
	r, ok := idx.byKey[Key{EmployeeID: employeeID, Date: date}]
	return r, ok
}

func (idx *Index) GetByID(id string) (Record, bool) {
	key, ok := idx.byID[id]
	if !ok {
		return Record{}, false
	}
	return idx.byKey[key], true
}

// SetStatus updates the status at key in place, creating a record from
// template when the cell is empty.
func (idx *Index) SetStatus(template Record, status Status) Record {
	r, ok := idx.byKey[template.Key()]
	if !ok {
		r = template
	}
	r.Status = status
	idx.Put(r)
	return r
}

// SetNote updates the note of the record with the given id. It reports
// false when no such record is indexed.
func (idx *Index) SetNote(recordID, note string) bool {
	key, ok := idx.byID[recordID]
	if !ok {
		return false
	}
	r := idx.byKey[key]
	r.Note = note
	idx.byKey[key] = r
	return true
}

func (idx *Index) Len() int {
	return len(idx.byKey)
}

// Records returns all indexed records ordered by date, then employee id.
func (idx *Index) Records() []Record {
	out := make([]Record, 0, len(idx.byKey))
	for _, r := range idx.byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Employee.ID < out[j].Employee.ID
	})
	return out
}

func (idx *Index) Clone() *Index {
	c := &Index{
		byKey: make(map[Key]Record, len(idx.byKey)),
		byID:  make(map[string]Key, len(idx.byID)),
	}
	for k, v := range idx.byKey {
		c.byKey[k] = v
	}
	for k, v := range idx.byID {
		c.byID[k] = v
	}
	return c
}
