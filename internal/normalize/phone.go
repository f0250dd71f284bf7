package normalize

import "fmt"

// FormatPhone standardizes a US phone number to "(AAA) BBB-CCCC".
// Non-digits are stripped; an 11-digit number with a leading 1 drops the
// country code. Anything that does not end up as exactly 10 digits is
// returned unchanged.
func FormatPhone(phone string) string {
	var digits []byte
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}

	if len(digits) > 10 && digits[0] == '1' {
		digits = digits[1:]
	}

	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}
