package language

// Earlier patterns win when several capture the same node, so specific
// patterns come before the generic identifier captures.

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((escape_sequence) @escape)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant.builtin)
((true) @constant.builtin)
((false) @constant.builtin)
((iota) @constant.builtin)
((identifier) @type.builtin (#match? @type.builtin "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @function.builtin (#match? @function.builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((const_spec name: (identifier) @constant))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((package_identifier) @namespace)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function.method))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function.method)))
((field_identifier) @property)
((parameter_declaration (identifier) @variable.parameter))
((variadic_parameter_declaration (identifier) @variable.parameter))
((label_name) @label)
((identifier) @variable)
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
["(" ")" "[" "]" "{" "}"] @punctuation.bracket
["." "," ";" ":"] @punctuation.delimiter
`

const yamlHighlightQuery = `
((comment) @comment)
((block_mapping_pair key: (_) @property))
((flow_pair key: (_) @property))
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant.builtin)
((boolean_scalar) @constant.builtin)
((anchor_name) @label)
((alias_name) @label)
((tag) @type)
["[" "]" "{" "}"] @punctuation.bracket
["," ":" "-"] @punctuation.delimiter
`

const tomlHighlightQuery = `
((comment) @comment)
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
((bare_key) @property)
((quoted_key) @property)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant.builtin)
((local_date) @string)
((local_time) @string)
((local_date_time) @string)
((offset_date_time) @string)
["[" "]" "[[" "]]" "{" "}"] @punctuation.bracket
["=" "." ","] @punctuation.delimiter
`

const bashHighlightQuery = `
((comment) @comment)
((function_definition name: (word) @function))
((command_name) @function)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @variable)
((special_variable_name) @variable.builtin)
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "select" "return" "exit" "break" "continue"
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
["$" "${" "((" "))" "[[" "]]" ";" ";;" "&&" "||" "|" "&" "<" ">" ">>" "<<" "<<<"] @operator
["(" ")" "[" "]" "{" "}"] @punctuation.bracket
`

const markdownHighlightQuery = `
(atx_heading) @markup.heading
(setext_heading) @markup.heading
(thematic_break) @comment
(block_quote_marker) @comment
(list_marker_plus) @markup.list
(list_marker_minus) @markup.list
(list_marker_star) @markup.list
(list_marker_dot) @markup.list
(list_marker_parenthesis) @markup.list
(task_list_marker_checked) @constant
(task_list_marker_unchecked) @constant
(fenced_code_block_delimiter) @punctuation.delimiter
(indented_code_block) @markup.raw
(code_fence_content) @markup.raw
(info_string) @label
(link_reference_definition) @markup.link
`

const pythonHighlightQuery = `
((comment) @comment)
((string) @string)
((escape_sequence) @escape)
((integer) @number)
((float) @number)
((true) @constant.builtin)
((false) @constant.builtin)
((none) @constant.builtin)
((decorator) @attribute)
((function_definition name: (identifier) @function))
((class_definition name: (identifier) @type))
((call function: (identifier) @function))
((call function: (attribute attribute: (identifier) @function.method)))
((attribute attribute: (identifier) @property))
((parameters (identifier) @variable.parameter))
((identifier) @variable)
[
  "def" "class" "return" "if" "elif" "else" "for" "while" "import" "from"
  "as" "pass" "with" "try" "except" "finally" "raise" "in" "not" "and"
  "or" "lambda" "yield" "global" "nonlocal" "assert" "del" "break"
  "continue" "is" "async" "await"
] @keyword
["(" ")" "[" "]" "{" "}"] @punctuation.bracket
["," "." ":"] @punctuation.delimiter
`

const rustHighlightQuery = `
((line_comment) @comment)
((block_comment) @comment)
((string_literal) @string)
((raw_string_literal) @string)
((char_literal) @string)
((escape_sequence) @escape)
((integer_literal) @number)
((float_literal) @number)
((boolean_literal) @constant.builtin)
((primitive_type) @type.builtin)
((type_identifier) @type)
((function_item name: (identifier) @function))
((call_expression function: (identifier) @function))
((macro_invocation macro: (identifier) @function.macro))
((field_identifier) @property)
((lifetime) @label)
((attribute_item) @attribute)
((self) @variable.builtin)
((identifier) @variable)
[
  "fn" "let" "pub" "impl" "struct" "enum" "trait" "use" "mod" "match"
  "if" "else" "for" "while" "loop" "return" "break" "continue" "const"
  "static" "where" "as" "in" "unsafe" "type"
] @keyword
["(" ")" "[" "]" "{" "}"] @punctuation.bracket
["," "." ":" "::" ";"] @punctuation.delimiter
`

const javascriptHighlightQuery = `
((comment) @comment)
((string) @string)
((template_string) @string)
((regex) @string)
((number) @number)
((true) @constant.builtin)
((false) @constant.builtin)
((null) @constant.builtin)
((undefined) @constant.builtin)
((this) @variable.builtin)
((function_declaration name: (identifier) @function))
((method_definition name: (property_identifier) @function.method))
((call_expression function: (identifier) @function))
((call_expression function: (member_expression property: (property_identifier) @function.method)))
((property_identifier) @property)
((identifier) @variable)
[
  "function" "return" "if" "else" "for" "while" "do" "const" "let" "var"
  "class" "extends" "new" "import" "export" "from" "default" "switch"
  "case" "break" "continue" "try" "catch" "finally" "throw" "async"
  "await" "of" "in" "typeof" "instanceof" "delete" "void" "yield" "static"
] @keyword
["(" ")" "[" "]" "{" "}"] @punctuation.bracket
["," "." ";" ":"] @punctuation.delimiter
`
