package mailbox

import (
	"fmt"
	"strings"
)

// fakeSession is an in-memory Session for tests. Folders map names to
// uid-keyed raw messages; selecting an unknown folder fails like a
// real server would.
type fakeSession struct {
	folders  map[string]map[uint32][]byte
	unseen   []uint32
	selected string
	closed   bool

	// appendIndexes controls whether appended messages become
	// visible to subject searches.
	appendIndexes bool
	appended      map[string][][]byte
}

func newFakeSession(folders ...string) *fakeSession {
	fs := &fakeSession{
		folders:       make(map[string]map[uint32][]byte),
		appended:      make(map[string][][]byte),
		appendIndexes: true,
	}
	for _, name := range folders {
		fs.folders[name] = make(map[uint32][]byte)
	}
	return fs
}

func (f *fakeSession) put(folder string, uid uint32, raw []byte) {
	f.folders[folder][uid] = raw
}

func (f *fakeSession) SelectFolder(name string, readOnly bool) error {
	if _, ok := f.folders[name]; !ok {
		return fmt.Errorf("no such mailbox %q", name)
	}
	f.selected = name
	return nil
}

func (f *fakeSession) SearchUnseen() ([]uint32, error) {
	return append([]uint32{}, f.unseen...), nil
}

func (f *fakeSession) SearchHeaders(fields, values []string) ([]uint32, error) {
	var uids []uint32
	for uid, raw := range f.folders[f.selected] {
		text := string(raw)
		for i := range fields {
			if strings.Contains(text, values[i]) {
				uids = append(uids, uid)
				break
			}
		}
	}
	// Map iteration order is random; keep results deterministic.
	for i := 0; i < len(uids); i++ {
		for j := i + 1; j < len(uids); j++ {
			if uids[j] < uids[i] {
				uids[i], uids[j] = uids[j], uids[i]
			}
		}
	}
	return uids, nil
}

func (f *fakeSession) SearchSubject(subject string) ([]uint32, error) {
	if !f.appendIndexes {
		return nil, nil
	}
	var uids []uint32
	var next uint32 = 1000
	for _, raw := range f.appended[f.selected] {
		if strings.Contains(string(raw), subject) {
			uids = append(uids, next)
			next++
		}
	}
	for uid, raw := range f.folders[f.selected] {
		if strings.Contains(string(raw), "Subject: "+subject) {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

func (f *fakeSession) FetchRaw(uid uint32) ([]byte, error) {
	raw, ok := f.folders[f.selected][uid]
	if !ok {
		return nil, fmt.Errorf("message %d not found", uid)
	}
	return raw, nil
}

func (f *fakeSession) Append(folder string, flags []string, raw []byte) error {
	if _, ok := f.folders[folder]; !ok {
		return fmt.Errorf("no such mailbox %q", folder)
	}
	f.appended[folder] = append(f.appended[folder], raw)
	return nil
}

func (f *fakeSession) AddFlags(uid uint32, flags ...string) error    { return nil }
func (f *fakeSession) RemoveFlags(uid uint32, flags ...string) error { return nil }
func (f *fakeSession) Expunge() error                                { return nil }

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}
