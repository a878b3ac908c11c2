package staticlink

// Class is the reason a token landed where it did
type Class string

const (
	ClassExistingStatic Class = "existing-static"
	ClassNeverStatic    Class = "never-static"
	ClassSpecial        Class = "special"
	ClassFound          Class = "found"
	ClassFallback       Class = "fallback"
)

// Static reports whether tokens of this class end up under STLIB_
func (c Class) Static() bool {
	switch c {
	case ClassExistingStatic, ClassSpecial, ClassFound:
		return true
	}
	return false
}

// Record describes the rewrite of one token
type Record struct {
	Key    string
	Name   string
	Token  string
	Class  Class
	Result string
	Target string
}

// Report collects what a rewrite did
type Report struct {
	Records []Record
	Cleared []string
	Backup  string
}

// Count returns the number of records of class c
func (r *Report) Count(c Class) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Class == c {
			n++
		}
	}
	return n
}

// Static returns the number of tokens resolved to archive paths
func (r *Report) Static() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Class.Static() {
			n++
		}
	}
	return n
}

func (r *Report) add(rec Record) {
	r.Records = append(r.Records, rec)
}
