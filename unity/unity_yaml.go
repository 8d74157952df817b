package unity

import (
	"bytes"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

type yamlDoc struct {
	Tag    string // tag:unity3d.com,2011:4
	FileID int64
	Body   []byte
}

func (d *yamlDoc) Decode(dst interface{}) error {
	return yaml.Unmarshal(d.Body, dst)
}

// splitDocuments splits a Unity multi-document file at its
// "--- !u!<class> &<fileID>" headers, resolving %TAG handles.
func splitDocuments(data []byte) []*yamlDoc {
	tags := map[string]string{}
	var docs []*yamlDoc
	var doc *yamlDoc
	start := 0
	for pos := 0; pos < len(data); {
		next := len(data)
		if i := bytes.IndexByte(data[pos:], '\n'); i >= 0 {
			next = pos + i + 1
		}
		line := string(bytes.TrimRight(data[pos:next], "\r\n"))
		if strings.HasPrefix(line, "%TAG") {
			if f := strings.Fields(line); len(f) == 3 {
				tags[strings.Trim(f[1], "!")] = f[2]
			}
		} else if strings.HasPrefix(line, "---") {
			if doc != nil {
				doc.Body = data[start:pos]
				docs = append(docs, doc)
			}
			doc = parseHeader(line[3:], tags)
			start = next
		}
		pos = next
	}
	if doc != nil {
		doc.Body = data[start:]
		docs = append(docs, doc)
	}
	return docs
}

func parseHeader(s string, tags map[string]string) *yamlDoc {
	doc := &yamlDoc{}
	for _, f := range strings.Fields(s) {
		if strings.HasPrefix(f, "&") {
			doc.FileID, _ = strconv.ParseInt(f[1:], 10, 64)
		} else if strings.HasPrefix(f, "!") {
			doc.Tag = f
			t := strings.SplitN(f[1:], "!", 2)
			if prefix, ok := tags[t[0]]; ok && len(t) == 2 {
				doc.Tag = prefix + t[1]
			}
		}
	}
	return doc
}
