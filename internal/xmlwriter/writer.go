// =============================================================================
// salesdocs - XML Document Writer
// =============================================================================
//
// This module renders a document as XML for systems that import estimates and
// orders electronically.
//
// XML STRUCTURE:
//
//   <document type="estimate" number="EST-20240502-0001">
//     <Title>견적서</Title>
//     <CreatedAt>2024-05-02</CreatedAt>
//     <CompanyName>한빛상사</CompanyName>
//     <ContactName>김민수</ContactName>
//     <Author>이영업</Author>
//     <Supplier>우리상사</Supplier>
//     <ValidUntil>2024-06-01</ValidUntil>      <!-- type-specific fields -->
//     <PaymentTerms>협의</PaymentTerms>
//     <items>
//       <item n="1">
//         <Name>A4 용지</Name>
//         <Spec>80g</Spec>
//         <Quantity>2</Quantity>
//         <UnitPrice>1000</UnitPrice>
//         <Amount>2000</Amount>
//       </item>
//     </items>
//     <TotalAmount>2000</TotalAmount>
//     <KoreanAmount>이천</KoreanAmount>
//     <Notes>부가세 별도</Notes>
//   </document>
//
// Optional fields are left out when empty. Required fields of the document's
// type are always written, as self-closing elements when empty.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	IncludeXMLDeclaration bool

	// RootElement is the name of the root element.
	// Default: "document"
	RootElement string

	// RootAttributes are additional attributes for the root element.
	// Example: {"xmlns": "http://example.com/schema"}
	RootAttributes map[string]string

	// ItemIndexAttribute is the attribute name for the item index.
	// Default: "n"
	ItemIndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "document",
		RootAttributes:        make(map[string]string),
		ItemIndexAttribute:    "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders a document with the default options.
func Generate(v types.Rendering) ([]byte, error) {
	return GenerateWithOptions(v, DefaultGenerateOptions())
}

// GenerateWithOptions renders a document with custom options.
func GenerateWithOptions(v types.Rendering, options GenerateOptions) ([]byte, error) {
	if v.Document.DocumentNumber == "" {
		return nil, fmt.Errorf("document has no number")
	}

	var buffer bytes.Buffer
	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := buildDocument(v, options)
	writeElement(&buffer, root, options.Indent, 0)
	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// field is one header element of the document.
type field struct {
	tag      string
	value    string
	required bool
}

func buildDocument(v types.Rendering, options GenerateOptions) XMLElement {
	doc := v.Document
	c := doc.Content

	root := XMLElement{
		XMLName: xml.Name{Local: options.RootElement},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "type"}, Value: string(doc.Type)},
			{Name: xml.Name{Local: "number"}, Value: doc.DocumentNumber},
		},
	}
	for _, key := range sortedKeys(options.RootAttributes) {
		root.Attributes = append(root.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	company := v.Company.Name
	if company == "" {
		company = c.CompanyName
	}
	fields := []field{
		{"Title", doc.Type.Title(), true},
		{"CreatedAt", doc.CreatedAt.Format("2006-01-02"), true},
		{"CompanyName", company, true},
		{"ContactName", v.Contact.ContactName, true},
		{"Author", v.User.Name, true},
		{"Supplier", v.Supplier.Name, false},
	}
	fields = append(fields, typeFields(doc.Type, c)...)
	for _, f := range fields {
		if f.value != "" || f.required {
			root.Children = append(root.Children, createSimpleElement(f.tag, f.value))
		}
	}

	items := XMLElement{XMLName: xml.Name{Local: "items"}}
	for i, it := range c.Items {
		n := it.Number
		if n == 0 {
			n = i + 1
		}
		items.Children = append(items.Children, XMLElement{
			XMLName: xml.Name{Local: "item"},
			Attributes: []xml.Attr{
				{Name: xml.Name{Local: options.ItemIndexAttribute}, Value: strconv.Itoa(n)},
			},
			Children: []XMLElement{
				createSimpleElement("Name", it.Name),
				createSimpleElement("Spec", it.Spec),
				createSimpleElement("Quantity", strconv.FormatInt(it.Quantity, 10)),
				createSimpleElement("UnitPrice", it.UnitPrice.String()),
				createSimpleElement("Amount", it.Amount.String()),
			},
		})
	}
	root.Children = append(root.Children,
		items,
		createSimpleElement("TotalAmount", doc.TotalAmount.String()),
		createSimpleElement("KoreanAmount", c.KoreanAmount),
	)
	if c.Notes != "" {
		root.Children = append(root.Children, createSimpleElement("Notes", c.Notes))
	}
	return root
}

// typeFields returns the fields that only apply to t.
func typeFields(t types.DocumentType, c types.Content) []field {
	switch t {
	case types.DocOrder:
		return []field{
			{"DeliveryDate", c.DeliveryDate, true},
			{"PaymentTerms", c.PaymentTerms, false},
		}
	case types.DocQuotationRequest:
		return []field{
			{"DesiredEstimateDate", c.DesiredEstimateDate, true},
			{"RequestDate", c.RequestDate, false},
		}
	default:
		return []field{
			{"ValidUntil", c.ValidUntil, false},
			{"DeliveryPlace", c.DeliveryPlace, false},
			{"DeliveryTerm", c.DeliveryTerm, false},
			{"PaymentTerms", c.PaymentTerms, false},
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// writeElement writes an element and its children, one element per line.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	for _, attr := range element.Attributes {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}
	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes text for use in element content and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns a schema for documents of type t, with the same
// required/optional split the writer uses.
func GenerateXSD(t types.DocumentType) []byte {
	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	buffer.WriteString(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="document">
    <xs:complexType>
      <xs:sequence>
`)

	header := []field{
		{"Title", "", true},
		{"CreatedAt", "", true},
		{"CompanyName", "", true},
		{"ContactName", "", true},
		{"Author", "", true},
		{"Supplier", "", false},
	}
	for _, f := range append(header, typeFields(t, types.Content{})...) {
		writeXSDElement(&buffer, f.tag, f.required)
	}

	buffer.WriteString(`        <xs:element name="items">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="item" minOccurs="0" maxOccurs="unbounded">
                <xs:complexType>
                  <xs:sequence>
                    <xs:element name="Name" type="xs:string"/>
                    <xs:element name="Spec" type="xs:string"/>
                    <xs:element name="Quantity" type="xs:nonNegativeInteger"/>
                    <xs:element name="UnitPrice" type="xs:decimal"/>
                    <xs:element name="Amount" type="xs:decimal"/>
                  </xs:sequence>
                  <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
                </xs:complexType>
              </xs:element>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
        <xs:element name="TotalAmount" type="xs:decimal"/>
        <xs:element name="KoreanAmount" type="xs:string"/>
        <xs:element name="Notes" type="xs:string" minOccurs="0"/>
      </xs:sequence>
`)
	fmt.Fprintf(&buffer, `      <xs:attribute name="type" type="xs:string" fixed="%s"/>
      <xs:attribute name="number" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>
</xs:schema>
`, t)
	return buffer.Bytes()
}

// writeXSDElement declares a header field. Dates may be blank, so every
// header field is a string.
func writeXSDElement(buffer *bytes.Buffer, name string, required bool) {
	minOccurs := "0"
	if required {
		minOccurs = "1"
	}
	fmt.Fprintf(buffer, "        <xs:element name=\"%s\" type=\"xs:string\" minOccurs=\"%s\"/>\n", name, minOccurs)
}

