package epubdoc

import (
	"errors"
	"testing"
)

func encryptionXML(algorithms ...string) string {
	s := `<encryption xmlns="urn:oasis:names:tc:opendocument:xmlns:container" xmlns:enc="http://www.w3.org/2001/04/xmlenc#">`
	for _, a := range algorithms {
		s += `<enc:EncryptedData><enc:EncryptionMethod Algorithm="` + a + `"/></enc:EncryptedData>`
	}
	return s + `</encryption>`
}

func TestCheckDRM(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		font  bool
		err   error
	}{
		{"none", map[string]string{"mimetype": expectedMimetype}, false, nil},
		{"font obfuscation", map[string]string{
			encryptionPath: encryptionXML("http://www.idpf.org/2008/embedding"),
		}, true, nil},
		{"real encryption", map[string]string{
			encryptionPath: encryptionXML("http://www.idpf.org/2008/embedding", "http://www.w3.org/2001/04/xmlenc#aes128-cbc"),
		}, false, ErrDRMProtected},
		{"fairplay", map[string]string{sinfPath: "<sinf/>"}, false, ErrDRMProtected},
		{"lcp", map[string]string{lcpLicensePath: "{}"}, false, ErrDRMProtected},
		{"adept", map[string]string{rightsPath: "<rights/>"}, false, ErrDRMProtected},
		{"unparseable", map[string]string{encryptionPath: "<encryption>"}, false, ErrDRMProtected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			font, err := checkDRM(buildTestZip(t, tt.files))
			if !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
			if font != tt.font {
				t.Errorf("fontObfuscation = %v, want %v", font, tt.font)
			}
		})
	}
}
