package epubdoc

import (
	"encoding/xml"
	"strings"
)

const (
	encryptionPath = "META-INF/encryption.xml"
	// sinfPath only exists in Apple FairPlay protected books.
	sinfPath = "META-INF/sinf.xml"
	// lcpLicensePath marks Readium LCP.
	lcpLicensePath = "META-INF/license.lcpl"
	// rightsPath carries the Adobe ADEPT rights token.
	rightsPath = "META-INF/rights.xml"
)

// fontObfuscationAlgorithms mangle embedded fonts only; the text stays
// readable.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

type xmlEncryption struct {
	XMLName       xml.Name `xml:"encryption"`
	EncryptedData []struct {
		EncryptionMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
	} `xml:"EncryptedData"`
}

// checkDRM inspects encryption.xml. It returns ErrDRMProtected when any
// resource is encrypted with something other than font obfuscation, and
// reports whether font obfuscation was seen.
func checkDRM(a *zipArchive) (fontObfuscation bool, err error) {
	for _, marker := range []string{sinfPath, lcpLicensePath, rightsPath} {
		if a.find(marker) != nil {
			return false, ErrDRMProtected
		}
	}
	if a.find(encryptionPath) == nil {
		return false, nil
	}

	data, err := a.readEntry(encryptionPath)
	if err != nil {
		return false, err
	}
	var enc xmlEncryption
	if err := xml.Unmarshal(stripBOM(data), &enc); err != nil {
		// An unreadable descriptor is treated as protection.
		return false, ErrDRMProtected
	}

	for _, ed := range enc.EncryptedData {
		if fontObfuscationAlgorithms[strings.TrimSpace(ed.EncryptionMethod.Algorithm)] {
			fontObfuscation = true
			continue
		}
		return false, ErrDRMProtected
	}
	return fontObfuscation, nil
}
