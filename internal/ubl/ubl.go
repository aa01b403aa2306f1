package ubl

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"involinks-backend/internal/models"
	"involinks-backend/internal/vat"

	"github.com/shopspring/decimal"
)

// UBL 2.1 invoice profile identifiers for the UAE PINT billing process.
const (
	CustomizationID = "urn:peppol:pint:billing-1@ae-1"
	ProfileID       = "urn:peppol:bis:billing"
	ublVersion      = "2.1"
)

// Invoice type codes (UNCL1001)
const (
	TypeCodeInvoice    = "380"
	TypeCodeCreditNote = "381"
)

type Party struct {
	Name    string
	TRN     string
	Country string // ISO 3166-1 alpha-2, defaults to AE
}

type amount struct {
	Value      string `xml:",chardata"`
	CurrencyID string `xml:"currencyID,attr"`
}

type taxScheme struct {
	ID string `xml:"cbc:ID"`
}

type taxCategory struct {
	ID        string    `xml:"cbc:ID"`
	Percent   string    `xml:"cbc:Percent"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type taxSubtotal struct {
	TaxableAmount amount      `xml:"cbc:TaxableAmount"`
	TaxAmount     amount      `xml:"cbc:TaxAmount"`
	TaxCategory   taxCategory `xml:"cac:TaxCategory"`
}

type taxTotal struct {
	TaxAmount   amount        `xml:"cbc:TaxAmount"`
	TaxSubtotal []taxSubtotal `xml:"cac:TaxSubtotal"`
}

type country struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type postalAddress struct {
	Country country `xml:"cac:Country"`
}

type partyTaxScheme struct {
	CompanyID string    `xml:"cbc:CompanyID,omitempty"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type partyLegalEntity struct {
	RegistrationName string `xml:"cbc:RegistrationName"`
}

type xmlParty struct {
	PostalAddress    postalAddress    `xml:"cac:PostalAddress"`
	PartyTaxScheme   *partyTaxScheme  `xml:"cac:PartyTaxScheme,omitempty"`
	PartyLegalEntity partyLegalEntity `xml:"cac:PartyLegalEntity"`
}

type supplierParty struct {
	Party xmlParty `xml:"cac:Party"`
}

type customerParty struct {
	Party xmlParty `xml:"cac:Party"`
}

type monetaryTotal struct {
	LineExtensionAmount amount `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount  amount `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount  amount `xml:"cbc:TaxInclusiveAmount"`
	PayableAmount       amount `xml:"cbc:PayableAmount"`
}

type item struct {
	Name                  string      `xml:"cbc:Name"`
	ClassifiedTaxCategory taxCategory `xml:"cac:ClassifiedTaxCategory"`
}

type price struct {
	PriceAmount amount `xml:"cbc:PriceAmount"`
}

type invoiceLine struct {
	ID                  string `xml:"cbc:ID"`
	InvoicedQuantity    string `xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount amount `xml:"cbc:LineExtensionAmount"`
	Item                item   `xml:"cac:Item"`
	Price               price  `xml:"cac:Price"`
}

type ublInvoice struct {
	XMLName         xml.Name `xml:"Invoice"`
	Xmlns           string   `xml:"xmlns,attr"`
	XmlnsCac        string   `xml:"xmlns:cac,attr"`
	XmlnsCbc        string   `xml:"xmlns:cbc,attr"`
	UBLVersionID    string   `xml:"cbc:UBLVersionID"`
	CustomizationID string   `xml:"cbc:CustomizationID"`
	ProfileID       string   `xml:"cbc:ProfileID"`
	ID              string   `xml:"cbc:ID"`
	IssueDate       string   `xml:"cbc:IssueDate"`
	DueDate         string   `xml:"cbc:DueDate,omitempty"`
	InvoiceTypeCode string   `xml:"cbc:InvoiceTypeCode"`
	Note            string   `xml:"cbc:Note,omitempty"`
	CurrencyCode    string   `xml:"cbc:DocumentCurrencyCode"`

	Supplier supplierParty `xml:"cac:AccountingSupplierParty"`
	Customer customerParty `xml:"cac:AccountingCustomerParty"`

	TaxTotal      taxTotal      `xml:"cac:TaxTotal"`
	MonetaryTotal monetaryTotal `xml:"cac:LegalMonetaryTotal"`
	Lines         []invoiceLine `xml:"cac:InvoiceLine"`
}

// Generate renders an issued invoice as a UBL 2.1 XML document. The
// per-code tax subtotals are recomputed from the stored lines so the
// XML is always consistent with the persisted amounts.
func Generate(inv *models.InvoiceWithLines, supplier, customer Party) ([]byte, error) {
	if inv.IssueDate == nil {
		return nil, fmt.Errorf("invoice has no issue date")
	}

	cur := inv.CurrencyCode
	if cur == "" {
		cur = "AED"
	}

	doc := ublInvoice{
		Xmlns:           "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2",
		XmlnsCac:        "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2",
		XmlnsCbc:        "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2",
		UBLVersionID:    ublVersion,
		CustomizationID: CustomizationID,
		ProfileID:       ProfileID,
		ID:              inv.InvoiceNumber,
		IssueDate:       inv.IssueDate.Format("2006-01-02"),
		InvoiceTypeCode: TypeCodeInvoice,
		Note:            inv.Notes,
		CurrencyCode:    cur,
		Supplier:        supplierParty{Party: buildParty(supplier)},
		Customer:        customerParty{Party: buildParty(customer)},
	}
	if inv.DueDate != nil {
		doc.DueDate = inv.DueDate.Format("2006-01-02")
	}

	// Credit notes carry negative totals
	if inv.TotalAmount.IsNegative() {
		doc.InvoiceTypeCode = TypeCodeCreditNote
	}

	type codeSum struct {
		taxable decimal.Decimal
		tax     decimal.Decimal
	}
	byCode := make(map[string]*codeSum)
	var codeOrder []string
	infoByCode := make(map[string]vat.CodeInfo)
	for i, line := range inv.Lines {
		info, err := vat.GetCodeInfo(line.TaxCode)
		if err != nil {
			return nil, fmt.Errorf("invoice line %d has unknown tax code %q", i+1, line.TaxCode)
		}
		infoByCode[line.TaxCode] = info

		doc.Lines = append(doc.Lines, invoiceLine{
			ID:                  fmt.Sprintf("%d", i+1),
			InvoicedQuantity:    line.Quantity.String(),
			LineExtensionAmount: money(line.NetAmount, cur),
			Item: item{
				Name: line.Description,
				ClassifiedTaxCategory: taxCategory{
					ID:        info.PeppolCode,
					Percent:   info.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0),
					TaxScheme: taxScheme{ID: "VAT"},
				},
			},
			Price: price{PriceAmount: money(line.UnitPrice, cur)},
		})

		sum, ok := byCode[line.TaxCode]
		if !ok {
			sum = &codeSum{}
			byCode[line.TaxCode] = sum
			codeOrder = append(codeOrder, line.TaxCode)
		}
		sum.taxable = sum.taxable.Add(line.NetAmount)
		sum.tax = sum.tax.Add(line.VATAmount)
	}

	doc.TaxTotal = taxTotal{TaxAmount: money(inv.TaxAmount, cur)}
	for _, code := range codeOrder {
		info := infoByCode[code]
		sum := byCode[code]
		doc.TaxTotal.TaxSubtotal = append(doc.TaxTotal.TaxSubtotal, taxSubtotal{
			TaxableAmount: money(sum.taxable, cur),
			TaxAmount:     money(sum.tax, cur),
			TaxCategory: taxCategory{
				ID:        info.PeppolCode,
				Percent:   info.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0),
				TaxScheme: taxScheme{ID: "VAT"},
			},
		})
	}

	doc.MonetaryTotal = monetaryTotal{
		LineExtensionAmount: money(inv.Subtotal, cur),
		TaxExclusiveAmount:  money(inv.Subtotal, cur),
		TaxInclusiveAmount:  money(inv.TotalAmount, cur),
		PayableAmount:       money(inv.TotalAmount, cur),
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode UBL document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func buildParty(p Party) xmlParty {
	c := p.Country
	if c == "" {
		c = "AE"
	}
	xp := xmlParty{
		PostalAddress:    postalAddress{Country: country{IdentificationCode: c}},
		PartyLegalEntity: partyLegalEntity{RegistrationName: p.Name},
	}
	if p.TRN != "" {
		xp.PartyTaxScheme = &partyTaxScheme{
			CompanyID: p.TRN,
			TaxScheme: taxScheme{ID: "VAT"},
		}
	}
	return xp
}

func money(d decimal.Decimal, cur string) amount {
	return amount{Value: d.Round(2).StringFixed(2), CurrencyID: cur}
}
