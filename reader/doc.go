// Package reader decodes stage documents and parses them into a typed node
// tree.
//
// # Encodings
//
// Stage dumps arrive in whatever encoding the dumping tool chose. The byte
// order mark decides how the bytes are decoded:
//
//   - FF FE: UTF-16 little-endian
//   - FE FF: UTF-16 big-endian
//   - EF BB BF: UTF-8 with BOM
//   - none: UTF-8, unless the XML prolog declares a legacy encoding such as
//     Shift_JIS or ISO-8859-1, which is then transcoded while parsing
//
// # Usage
//
//	root, err := reader.Open("CapWorldHomeStageMap.xml")
//	if err != nil {
//	    var de *reader.DecodeError
//	    if errors.As(err, &de) {
//	        log.Printf("not a readable %s document: %v", de.Encoding, de.Err)
//	    }
//	    return err
//	}
//
// Every decoding or well-formedness failure is a [DecodeError]. The tree
// keeps tags, attributes and child order exactly as written; character data
// is dropped since stage dumps keep all values in attributes.
package reader
