package service

type Op string

const (
	OpAttach  Op = "attach"
	OpDetach  Op = "detach"
	OpReplace Op = "replace"
)

// Plan works out which join rows to insert and delete so the movie's set
// matches op applied to requested. Requested ids are de-duplicated and keep
// their first-seen order.
func Plan(op Op, current, requested []uint) (add, remove []uint) {
	requested = Dedupe(requested)

	have := make(map[uint]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[uint]struct{}, len(requested))
	for _, id := range requested {
		want[id] = struct{}{}
	}

	switch op {
	case OpAttach:
		add = missingFrom(requested, have)
	case OpDetach:
		for _, id := range requested {
			if _, ok := have[id]; ok {
				remove = append(remove, id)
			}
		}
	case OpReplace:
		add = missingFrom(requested, have)
		remove = missingFrom(Dedupe(current), want)
	}
	return add, remove
}

func Dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingFrom(ids []uint, set map[uint]struct{}) []uint {
	var out []uint
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
