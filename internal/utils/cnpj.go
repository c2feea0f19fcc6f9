package utils

import "unicode"

// remove qualquer coisa que não seja dígito
func OnlyDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

func SanitizeCNPJ(s string) string { return OnlyDigits(s) }
func SanitizeCPF(s string) string  { return OnlyDigits(s) }
func SanitizeCEP(s string) string  { return OnlyDigits(s) }

// ValidateCNPJ espera só dígitos (14) e confere os dois dígitos verificadores.
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || !allDigits(cnpj) || allEqual(cnpj) {
		return false
	}
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(cnpj[:12], w1) == int(cnpj[12]-'0') &&
		checkDigit(cnpj[:13], w2) == int(cnpj[13]-'0')
}

// ValidateCPF espera só dígitos (11) e confere os dois dígitos verificadores.
func ValidateCPF(cpf string) bool {
	if len(cpf) != 11 || !allDigits(cpf) || allEqual(cpf) {
		return false
	}
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(cpf[:9], w1) == int(cpf[9]-'0') &&
		checkDigit(cpf[:10], w2) == int(cpf[10]-'0')
}

// ValidateCEP só checa o tamanho (8 dígitos).
func ValidateCEP(cep string) bool {
	return len(cep) == 8 && allDigits(cep)
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allEqual(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// FormatCNPJ devolve 00.000.000/0000-00; entradas fora do tamanho voltam como vieram.
func FormatCNPJ(s string) string {
	d := OnlyDigits(s)
	if len(d) != 14 {
		return s
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

func FormatCPF(s string) string {
	d := OnlyDigits(s)
	if len(d) != 11 {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

func FormatCEP(s string) string {
	d := OnlyDigits(s)
	if len(d) != 8 {
		return s
	}
	return d[0:5] + "-" + d[5:8]
}
