package scheduler

import "call-scheduler/internal/calls"

// historyIndex maps a phone number to every call scheduled for it,
// whatever the status. Slice order is insertion order; readers sort.
type historyIndex map[string][]calls.Call

func (h historyIndex) add(c calls.Call) {
	h[c.PhoneNumber] = append(h[c.PhoneNumber], c)
}

// remove deletes exactly one entry with the given id.
func (h historyIndex) remove(phone string, id int64) bool {
	entries := h[phone]
	for i := range entries {
		if entries[i].ID == id {
			entries = append(entries[:i:i], entries[i+1:]...)
			if len(entries) == 0 {
				delete(h, phone)
			} else {
				h[phone] = entries
			}
			return true
		}
	}
	return false
}

// setStatus updates the status of the entry with the given id.
func (h historyIndex) setStatus(phone string, id int64, s calls.Status) bool {
	entries := h[phone]
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = s
			return true
		}
	}
	return false
}

func (h historyIndex) get(phone string, id int64) (calls.Call, bool) {
	for _, c := range h[phone] {
		if c.ID == id {
			return c, true
		}
	}
	return calls.Call{}, false
}

// list returns a copy of the entries for phone, newest first.
func (h historyIndex) list(phone string) []calls.Call {
	entries := h[phone]
	out := make([]calls.Call, len(entries))
	copy(out, entries)
	sortByTimeDesc(out)
	return out
}

func (h historyIndex) size() int {
	n := 0
	for _, entries := range h {
		n += len(entries)
	}
	return n
}
