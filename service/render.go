package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/veralix/certgen/model"
	"github.com/veralix/certgen/pkg/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// noDescription replaces free text that is absent or fails the garbage
// heuristics.
const noDescription = "Sin descripción"

var vowelPattern = regexp.MustCompile(`(?i)[aeiouáéíóú]`)

// SanitizeDescription validates free-text input before it reaches the
// certificate. Too-short text and vowel-less, space-less strings (garbage or
// test input) are replaced; anything over 200 characters is truncated with
// an ellipsis.
func SanitizeDescription(description string) string {
	if description == "" {
		return noDescription
	}

	runes := []rune(description)
	if len(runes) < 10 {
		return noDescription
	}

	if !vowelPattern.MatchString(description) && !strings.Contains(description, " ") {
		return noDescription
	}

	if len(runes) > 200 {
		return string(runes[:197]) + "..."
	}
	return description
}

var currencyPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCurrency renders an appraisal value with es-CO digit grouping and no
// decimals. A zero amount yields an empty string so the value line can be
// omitted entirely.
func FormatCurrency(amount float64, currency string) string {
	if amount == 0 {
		return ""
	}
	if currency == "" {
		currency = "COP"
	}
	grouped := currencyPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
	return fmt.Sprintf("$ %s %s", grouped, currency)
}

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// certificateData feeds the HTML template. Image fields are data URIs, which
// html/template would otherwise reject as unsafe URLs.
type certificateData struct {
	CertificateID string
	JewelryName   string
	JewelryType   string
	Materials     string
	Weight        string
	Origin        string
	Artisan       string
	Description   string
	Value         string
	Date          string
	JewelryImage  template.URL
	QRCode        template.URL

	OriluxTxHash string
	EVMTxHash    string
	BlockNumber  string
	Network      string

	VerificationURL string
	Password        string
	Year            int
}

// Renderer assembles the self-contained HTML certificate document.
type Renderer struct {
	resolver *ImageResolver
	tmpl     *template.Template
	network  string
	now      func() time.Time
}

func NewRenderer(resolver *ImageResolver, networkName string) (*Renderer, error) {
	tmpl, err := template.New("certificate").Parse(certificateTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate template: %w", err)
	}
	return &Renderer{
		resolver: resolver,
		tmpl:     tmpl,
		network:  networkName,
		now:      time.Now,
	}, nil
}

// Render produces the certificate document. The returned bytes and text hold
// identical content: the bytes are pinned, the text is cached verbatim.
func (r *Renderer) Render(ctx context.Context, item *model.JewelryItem, certificateID, verificationURL string, oriluxRes, evmRes model.ChainResult, password string) ([]byte, string, error) {
	var imageURI template.URL
	if imageBytes := r.resolver.Resolve(ctx, item); imageBytes != nil {
		imageURI = template.URL(ImageDataURI(imageBytes))
	} else {
		logger.Warn(ctx, "rendering certificate without jewelry image", "certificate_id", certificateID)
	}

	qrURI, err := QRDataURI(verificationURL)
	if err != nil {
		return nil, "", err
	}

	weight := ""
	if item.Weight > 0 {
		weight = fmt.Sprintf("%gg", item.Weight)
	}

	blockNumber := evmRes.BlockNumber
	if blockNumber == "" {
		blockNumber = oriluxRes.BlockNumber
	}

	data := certificateData{
		CertificateID:   certificateID,
		JewelryName:     item.Name,
		JewelryType:     item.Type,
		Materials:       strings.Join(item.Materials, ", "),
		Weight:          weight,
		Origin:          item.Origin,
		Artisan:         item.Craftsman,
		Description:     SanitizeDescription(item.Description),
		Value:           FormatCurrency(item.SalePrice, item.Currency),
		Date:            spanishDate(r.now()),
		JewelryImage:    imageURI,
		QRCode:          template.URL(qrURI),
		OriluxTxHash:    oriluxRes.TxHash,
		EVMTxHash:       evmRes.TxHash,
		BlockNumber:     blockNumber,
		Network:         r.network,
		VerificationURL: verificationURL,
		Password:        password,
		Year:            r.now().Year(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, "", fmt.Errorf("failed to render certificate: %w", err)
	}

	html := buf.String()
	return []byte(html), html, nil
}
