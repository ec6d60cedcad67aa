package mcpserver

// DocumentFormatContract describes the packing-list document format that
// LLM consumers should follow when creating or replacing lists.
const DocumentFormatContract = `# packapp Document Format Contract

A packing list is a JSON document. Saved lists live on the shelf as
` + "`<slug>.json`" + `; shared lists travel inside a URL as the same JSON encoded
with unpadded URL-safe base64 (` + "`/list/<state>`" + `).

## Structure

` + "```" + `json
{
  "name": "Summer Holiday",
  "items": [
    {"kind": "list", "id": "clothes", "name": "Clothes", "items": [
      {"kind": "item", "id": "shirts", "name": "T-shirts", "checked": true},
      {"kind": "item", "id": "swimwear", "name": "Swimming costume", "checked": false}
    ]},
    {"kind": "item", "id": "passport", "name": "Passport", "checked": true}
  ]
}
` + "```" + `

## Rules

1. **Two node kinds.** ` + "`item`" + ` is a leaf with a ` + "`checked`" + ` flag. ` + "`list`" + `
   holds an ordered ` + "`items`" + ` array of child nodes and has no flag of its own.
2. **Ids are unique** across the whole document and non-empty. The id
   ` + "`root`" + ` is reserved for the document itself. New nodes get random UUIDs.
3. **Names** are trimmed and must not be empty.
4. **Derived state is never stored.** A list is packed when every direct child
   is packed; an empty list counts as packed. A list is partly packed
   (indeterminate) when some but not all direct children are packed. Progress is
   the share of packed direct children.
5. **Legacy input.** A bare top-level array is accepted as the items of a list
   named "New Packing List". Nodes without ` + "`kind`" + ` are lists when they carry
   an ` + "`items`" + ` array and items otherwise.

## Operations

Prefer ` + "`apply_operation`" + ` over rewriting whole documents:

| op | required fields |
|---|---|
| toggle | id (an item) |
| mark_all | id (a list or "root"); optional packed, otherwise the list's state is inverted |
| insert | kind, name; optional parent_id (defaults to root) |
| insert_adjacent | anchor_id, position ("above" or "below"), kind, name |
| rename | id, name |
| delete | id (never "root") |
| move | id, index (position among its siblings, clamped) |
`
