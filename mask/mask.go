// Package mask provides content-aware masking accessors for dryer.
//
// Masked accessors are named attr_masked and keep just enough of a value to
// be recognisable: the last four digits of a card, the domain of an email,
// the network half of an IP address.
//
//	users := dryer.New[User]()
//	mask.Shortcuts(users).
//	    ToMasked(mask.Email, "email").
//	    ToMasked(mask.Phone, "phone")
//
// The same rules can be installed through the config with Extension.
package mask

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// Kind names a data format with masking rules.
type Kind string

const (
	SSN   Kind = "ssn"   // 123-45-6789 -> ***-**-6789
	Email Kind = "email" // alice@example.com -> a***@example.com
	Phone Kind = "phone" // (555) 123-4567 -> (***) ***-4567
	Card  Kind = "card"  // 4111111111111111 -> ************1111
	IP    Kind = "ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	UUID  Kind = "uuid"  // 550e8400-e29b-41d4-a716-446655440000 -> 550e8400-****-****-****-************
	IBAN  Kind = "iban"  // GB82WEST12345698765432 -> GB82**************5432
	Name  Kind = "name"  // John Smith -> J*** S****
)

// Masker applies content-aware masking.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to Masker.
type MaskerFunc func(value string) string

// Mask calls fn(value).
func (fn MaskerFunc) Mask(value string) string {
	return fn(value)
}

// Builtin returns a new map of the shipped maskers.
func Builtin() map[Kind]Masker {
	return map[Kind]Masker{
		SSN:   MaskerFunc(maskSSN),
		Email: MaskerFunc(maskEmail),
		Phone: MaskerFunc(maskPhone),
		Card:  MaskerFunc(maskCard),
		IP:    MaskerFunc(maskIP),
		UUID:  MaskerFunc(maskUUID),
		IBAN:  MaskerFunc(maskIBAN),
		Name:  MaskerFunc(maskName),
	}
}

// stars hides the whole value.
func stars(value string) string {
	return strings.Repeat("*", len(value))
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// lastFour returns the last four digits, or false when there are fewer.
func lastFour(value string) (string, bool) {
	digits := digitsOf(value)
	if len(digits) < 4 {
		return "", false
	}
	return digits[len(digits)-4:], true
}

func maskSSN(value string) string {
	last, ok := lastFour(value)
	if !ok {
		return stars(value)
	}
	return "***-**-" + last
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return stars(value)
	}
	return value[:1] + "***" + value[at:]
}

func maskPhone(value string) string {
	last, ok := lastFour(value)
	if !ok {
		return stars(value)
	}
	full := len(digitsOf(value)) >= 10
	switch {
	case full && strings.HasPrefix(value, "("):
		return "(***) ***-" + last
	case full:
		return "***-***-" + last
	}
	return "***-" + last
}

func maskCard(value string) string {
	last, ok := lastFour(value)
	if !ok {
		return stars(value)
	}
	hidden := len(digitsOf(value)) - 4

	var sep string
	switch {
	case strings.Contains(value, " "):
		sep = " "
	case strings.Contains(value, "-"):
		sep = "-"
	default:
		return strings.Repeat("*", hidden) + last
	}

	groups := make([]string, 0, (hidden+3)/4+1)
	for i := 0; i < (hidden+3)/4; i++ {
		groups = append(groups, "****")
	}
	return strings.Join(append(groups, last), sep)
}

// maskIP keeps the first two IPv4 octets or the first four IPv6 groups.
func maskIP(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return stars(value)
	}
	if addr.Is4() {
		o := addr.As4()
		return fmt.Sprintf("%d.%d.xxx.xxx", o[0], o[1])
	}
	groups := strings.Split(addr.StringExpanded(), ":")
	return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
}

func maskUUID(value string) string {
	first, _, found := strings.Cut(value, "-")
	if !found || strings.Count(value, "-") != 4 {
		return stars(value)
	}
	return first + "-****-****-****-************"
}

func maskIBAN(value string) string {
	if len(value) <= 8 {
		return stars(value)
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func maskName(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(word)
		words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
	}
	return strings.Join(words, " ")
}
