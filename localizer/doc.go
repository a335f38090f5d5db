// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package localizer translates Mustache variables and sections.

A [Localizer] bound in a template's context under a name such as
"localize" can be used two ways:

	{{localize(greeting)}}
	{{#localize}}Hello {{name}}, you have {{count}} messages{{/localize}}

The filter form looks the rendered value up in the translation store.

The section form renders its content twice. The first render replaces
every nested variable with [Placeholder]; the result, with "%" escaped
as "%%" and each placeholder replaced by "%@", is the lookup key:

	Hello %@, you have %@ messages

The second render captures the text of each nested variable in document
order. Those arguments are substituted into the translated format in
order, or explicitly with "%1$@", "%2$@" and so on, so translations may
reorder them. Nested sections, loops and inverted sections are rendered
normally in both passes and become part of the key.

Localized sections cannot be nested inside one another; doing so returns
[ErrNestedLocalization].
*/
package localizer
